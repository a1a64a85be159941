package calculation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// swrSteps are the search resolutions in percentage points, coarse first.
var swrSteps = []float64{1.0, 0.1}

// swrCap is the largest withdrawal rate, in percent, the search will try.
const swrCap = 100.0

// searchMaxRate walks up from zero by each step in turn and returns the largest rate for
// which safe holds. Safety must be monotone: once a rate fails every higher one does.
func searchMaxRate(ctx context.Context, steps []float64, safe func(rate float64) bool) (float64, error) {
	var best float64
	for _, step := range steps {
		for {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			next := roundRate(best + step)
			if next > swrCap || !safe(next) {
				break
			}
			best = next
		}
	}
	return best, nil
}

// roundRate trims float drift from repeated decimal steps.
func roundRate(r float64) float64 {
	return math.Round(r*1e4) / 1e4
}

// ConstantRateInput is in with its policy replaced by a constant draw of rate percent of
// the starting sum. Bonus and flex rules are dropped; draw adjustments, increases, taxes
// and annuities are kept.
func ConstantRateInput(in domain.SimulationInput, rate float64) domain.SimulationInput {
	out := in
	out.Policy = domain.PolicyParams{
		Kind:             domain.PolicyConstant,
		WithdrawalAmount: rate / 100 * in.Horizon.StartSum,
		AnnualIncrease:   in.Policy.AnnualIncrease,
		DrawTax:          in.Policy.DrawTax,
		DrawAdjust:       in.Policy.DrawAdjust,
	}
	out.SafeCurve = nil
	return out
}

// MaxSWRByCycle returns, for every cycle, the largest constant withdrawal rate (percent of
// the starting sum) that never depletes the portfolio over the horizon.
func (s *Simulator) MaxSWRByCycle(ctx context.Context, in domain.SimulationInput) ([]float64, error) {
	start := time.Now()
	base, err := newRun(ConstantRateInput(in, 0))
	if err != nil {
		return nil, err
	}
	rates := make([]float64, base.cycles)
	errs := make([]error, base.cycles)
	err = parallelFor(ctx, base.cycles, s.workers, func(a int) {
		rates[a], errs[a] = searchMaxRate(ctx, swrSteps, func(rate float64) bool {
			r, err := newRun(ConstantRateInput(in, rate))
			if err != nil {
				return false
			}
			return r.survives(a)
		})
	})
	if err := firstError(err, errs); err != nil {
		return nil, fmt.Errorf("swr search cancelled: %w", err)
	}
	s.logger.Debugf("searched max SWR over %d cycles in %s", base.cycles, time.Since(start))
	return rates, nil
}

// SafestSWRByYear returns, for each simulation year c, the lowest across cycles of the
// largest safe rate for the remaining years-c, as a percentage of the value held when that
// remaining horizon starts. The curve sizes the room for bonus and flex draws, so it covers
// the draw-down alone: no accumulation, no annuities, draw adjustments shifted to year c.
func (s *Simulator) SafestSWRByYear(ctx context.Context, in domain.SimulationInput) ([]float64, error) {
	start := time.Now()
	full, err := newRun(ConstantRateInput(in, 0))
	if err != nil {
		return nil, err
	}
	years := in.Horizon.Years
	curve := make([]float64, years)
	errs := make([]error, years)
	err = parallelFor(ctx, years, s.workers, func(c int) {
		curve[c], errs[c] = s.safestFrom(ctx, in, c, full.cycles)
	})
	if err := firstError(err, errs); err != nil {
		return nil, fmt.Errorf("swr search cancelled: %w", err)
	}
	s.logger.Debugf("searched safest SWR for %d years in %s", years, time.Since(start))
	return curve, nil
}

func (s *Simulator) safestFrom(ctx context.Context, in domain.SimulationInput, c, cycles int) (float64, error) {
	rest := in
	rest.Horizon.Years = in.Horizon.Years - c
	rest.Horizon.YearsToWithdrawal = 0
	rest.Horizon.Contribution = 0
	rest.Annuities = nil
	rest.Policy.DrawAdjust = shiftAdjust(in.Policy.DrawAdjust, c)

	safest := math.Inf(1)
	for a := 0; a < cycles; a++ {
		rate, err := searchMaxRate(ctx, swrSteps, func(rate float64) bool {
			r, err := newRun(ConstantRateInput(rest, rate))
			if err != nil {
				return false
			}
			r.offset = c
			return r.survives(a)
		})
		if err != nil {
			return 0, err
		}
		safest = math.Min(safest, rate)
	}
	return safest, nil
}

func shiftAdjust(adj []float64, c int) []float64 {
	if c >= len(adj) {
		return nil
	}
	return adj[c:]
}

// SearchSWR runs both searches.
func (s *Simulator) SearchSWR(ctx context.Context, in domain.SimulationInput) (*domain.SWRResult, error) {
	byCycle, err := s.MaxSWRByCycle(ctx, in)
	if err != nil {
		return nil, err
	}
	byYear, err := s.SafestSWRByYear(ctx, in)
	if err != nil {
		return nil, err
	}
	safest := math.Inf(1)
	for _, r := range byCycle {
		safest = math.Min(safest, r)
	}
	return &domain.SWRResult{ByCycle: byCycle, ByYear: byYear, Safest: safest}, nil
}

func firstError(err error, errs []error) error {
	if err != nil {
		return err
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}
