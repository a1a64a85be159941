package calculation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rpgo/swr-simulator/internal/domain"
)

const (
	mixGridStep = 10
	// optimiserSafeRate is the flat safe withdrawal rate, in percent, that sizes flex room
	// while mixes are compared.
	optimiserSafeRate = 3.0
)

// MixGrid lists the candidate mixes in evaluation order. Backward runs read both bond
// classes from the same yield history, so only the equity/fixed-income split varies.
func MixGrid(direction domain.DataDirection) []domain.AssetMix {
	var grid []domain.AssetMix
	for e := 0; e <= 100; e += mixGridStep {
		fixed := 100 - e
		if direction != domain.DirectionForward {
			grid = append(grid, domain.AssetMix{Equity: pct(e), Bond: pct(fixed)})
			continue
		}
		for b := 0; b <= fixed; b += mixGridStep {
			grid = append(grid, domain.AssetMix{Equity: pct(e), Bond: pct(b), IndexBond: pct(fixed - b)})
		}
	}
	return grid
}

func pct(v int) float64 { return float64(v) / 100 }

// OptimiseMix runs the engine over the mix grid with a flat safe curve and no bonus, and
// picks the mix with the lowest failure rate and, among those, the highest average ending
// value.
func (s *Simulator) OptimiseMix(ctx context.Context, in domain.SimulationInput) (*domain.OptimisationResult, error) {
	start := time.Now()
	in.Policy.BonusTarget = 0
	in.SafeCurve = flatCurve(in.Horizon.Years, optimiserSafeRate)

	grid := MixGrid(in.Direction)
	runs := make([]*run, len(grid))
	for i, mix := range grid {
		candidate := in
		candidate.Mix = mix
		r, err := newRun(candidate)
		if err != nil {
			return nil, err
		}
		runs[i] = r
	}

	evaluated := make([]domain.MixResult, len(grid))
	err := parallelFor(ctx, len(grid), s.workers, func(i int) {
		evaluated[i] = runs[i].summarise()
	})
	if err != nil {
		return nil, fmt.Errorf("optimisation cancelled: %w", err)
	}

	res := &domain.OptimisationResult{Evaluated: evaluated}
	for i, m := range evaluated {
		if i == 0 || betterMix(m, res.MinFailure) {
			res.MinFailure = m
		}
		if i == 0 || betterMix(m, res.MaxValue) {
			res.MaxValue = m
		}
	}
	s.logger.Debugf("evaluated %d mixes in %s: min failure %.3f at %.0f%% equity",
		len(grid), time.Since(start), res.MinFailure.FailureRate, res.MinFailure.Equity)
	return res, nil
}

// betterMix reports whether m fails less often than best, or as often with a higher
// average ending value.
func betterMix(m, best domain.MixResult) bool {
	return m.FailureRate < best.FailureRate ||
		(m.FailureRate == best.FailureRate && m.AvgEndValue > best.AvgEndValue)
}

// summarise runs every cycle and keeps only what the optimiser compares.
func (r *run) summarise() domain.MixResult {
	var failed int
	var total float64
	for a := 0; a < r.cycles; a++ {
		c := r.cycle(a)
		if c.Failed {
			failed++
		}
		total += c.EndValue
	}
	m := r.in.Mix
	return domain.MixResult{
		Equity:      math.Round(m.Equity * 100),
		Bond:        math.Round(m.Bond * 100),
		IndexBond:   math.Round(m.IndexBond * 100),
		FailureRate: float64(failed) / float64(r.cycles),
		AvgEndValue: total / float64(r.cycles),
	}
}

func flatCurve(years int, rate float64) []float64 {
	curve := make([]float64, years)
	for i := range curve {
		curve[i] = rate
	}
	return curve
}
