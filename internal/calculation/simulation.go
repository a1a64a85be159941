package calculation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// Simulator back-tests a withdrawal plan over every rolling cycle of a return series.
type Simulator struct {
	logger  Logger
	workers int
}

// NewSimulator creates a simulator. workers bounds parallel cycles; zero means GOMAXPROCS.
func NewSimulator(logger Logger, workers int) *Simulator {
	return &Simulator{logger: orNop(logger), workers: workers}
}

// Run simulates every cycle and aggregates the outcomes. Depletion is recorded as a
// failure, never returned as an error.
func (s *Simulator) Run(ctx context.Context, in domain.SimulationInput) (*domain.SimulationResult, error) {
	start := time.Now()
	r, err := newRun(in)
	if err != nil {
		return nil, err
	}
	cycles := make([]domain.CycleOutcome, r.cycles)
	err = parallelFor(ctx, r.cycles, s.workers, func(a int) {
		cycles[a] = r.cycle(a)
	})
	if err != nil {
		return nil, fmt.Errorf("simulation cancelled: %w", err)
	}
	res := aggregate(cycles)
	s.logger.Debugf("simulated %d cycles of %d years (%s, %s) in %s: failure rate %.3f",
		r.cycles, in.Horizon.Years, in.Policy.Kind, in.Direction, time.Since(start), res.FailureRate)
	return res, nil
}

// run holds everything fixed for one engine run.
type run struct {
	in       domain.SimulationInput
	policy   Policy
	weights  [5]float64
	survival []float64
	cycles   int
	// offset shifts both the series and the forward curves, for runs that start part way
	// into a horizon.
	offset int
}

func newRun(in domain.SimulationInput) (*run, error) {
	years := in.Horizon.Years
	if years < 1 {
		return nil, fmt.Errorf("%w: horizon of %d years", ErrNoCycles, years)
	}
	cycles := in.Returns.Cycles(years)
	if cycles < 1 {
		return nil, fmt.Errorf("%w: %d observations for a %d year horizon", ErrNoCycles, in.Returns.Len(), years)
	}
	rs := in.Returns
	if len(rs.BondReal) != rs.Len() || len(rs.IndexBondReal) != rs.Len() || len(rs.CPIChange) != rs.Len() {
		return nil, ErrMisalignedSeries
	}
	if in.Direction == domain.DirectionForward {
		if len(rs.BondForward) < years || len(rs.IndexBondForward) < years {
			return nil, fmt.Errorf("%w: need %d points, have %d bond and %d index bond",
				ErrForwardCurveTooShort, years, len(rs.BondForward), len(rs.IndexBondForward))
		}
	}
	if len(in.Annuities) > domain.MaxAnnuities {
		return nil, fmt.Errorf("%w: %d configured, at most %d", ErrTooManyAnnuities, len(in.Annuities), domain.MaxAnnuities)
	}
	policy, err := NewPolicy(in.Policy)
	if err != nil {
		return nil, err
	}
	return &run{
		in:       in,
		policy:   policy,
		weights:  in.Mix.Weights(),
		survival: SurvivorshipWeights(years, in.Horizon.StartAge, in.Mortality),
		cycles:   cycles,
	}, nil
}

// cycleState is everything that changes from one year of a cycle to the next.
type cycleState struct {
	portfolio float64
	failed    bool
	policy    PolicyState
	annuities []AnnuityState
}

// yearInputs are the market and curve values that apply to one year of one cycle.
type yearInputs struct {
	year        int
	growth      float64
	cpiChange   float64
	minMultiple float64
}

// yearOutput is what one year records. Income figures are after tax.
type yearOutput struct {
	draw    float64
	bonus   float64
	annuity float64
	value   float64
}

func (r *run) newCycleState() *cycleState {
	// Annuity count was checked in newRun.
	annuities, _ := NewAnnuityStates(r.in.Annuities, r.in.Policy.WithdrawalAmount)
	return &cycleState{
		portfolio: r.in.Horizon.StartSum,
		policy:    NewPolicyState(),
		annuities: annuities,
	}
}

// inputs gathers year b of the cycle starting at offset a.
func (r *run) inputs(a, b int) yearInputs {
	rs := r.in.Returns
	w := r.weights
	i, f := a+r.offset+b, r.offset+b
	var g float64
	if r.in.Direction == domain.DirectionForward {
		g = rs.EquityReal[i]*w[0] + (rs.BondForward[f]-rs.CPIChange[i])*w[3] + rs.IndexBondForward[f]*w[4]
	} else {
		g = rs.EquityReal[i]*w[0] + rs.BondReal[i]*w[3] + rs.IndexBondReal[i]*w[4]
	}
	return yearInputs{
		year:        b,
		growth:      g,
		cpiChange:   rs.CPIChange[i],
		minMultiple: minMultiple(r.in.SafeCurve, b),
	}
}

// minMultiple is the portfolio cover implied by the safe withdrawal rate. After the first
// year it reads the preceding year's rate. A missing or zero rate means no cover suffices.
func minMultiple(curve []float64, b int) float64 {
	i := b - 1
	if b == 0 {
		i = 0
	}
	if i >= len(curve) || curve[i] <= 0 {
		return math.Inf(1)
	}
	return 1 / (curve[i] / 100)
}

// step advances one cycle by one year: accumulation or draw, annuity purchases, bonus,
// depletion check and growth.
func (r *run) step(st *cycleState, yi yearInputs) yearOutput {
	h := r.in.Horizon
	p := r.in.Policy
	b := yi.year
	var out yearOutput

	st.portfolio = advanceAnnuities(st.annuities, b, st.portfolio, p.DrawTax)
	annuityNet := totalNetIncome(st.annuities)
	out.annuity = annuityNet

	if b < h.YearsToWithdrawal {
		st.portfolio += h.Contribution * growth(h.ContributionIncrease, b)
	} else {
		d := r.policy.Draw(DrawInput{
			Year:         b,
			Portfolio:    st.portfolio,
			AnnuityNet:   annuityNet,
			MinMultiple:  yi.minMultiple,
			StartAge:     h.StartAge,
			EquityWeight: r.in.Mix.Equity,
		}, &st.policy)

		bonus := 0.0
		if b > h.YearsToWithdrawal && d.Bonus > 0 {
			bonus = bonusPayment(d, st.portfolio, yi.minMultiple)
		}
		out.draw = math.Max(math.Min(d.Amount, st.portfolio), 0) * (1 - p.DrawTax)
		out.bonus = bonus * (1 - p.DrawTax)

		if d.Amount > st.portfolio {
			st.failed = true
		}
		st.portfolio = math.Max(st.portfolio-bonus-d.Amount, 0)
	}

	if st.portfolio > 0 {
		st.portfolio *= 1 + yi.growth
		if st.portfolio < 0 {
			st.portfolio = 0
		}
	}
	indexAnnuities(st.annuities, yi.cpiChange)
	out.value = st.portfolio
	return out
}

// bonusPayment caps the requested bonus at whatever the portfolio holds beyond the safe
// cover of the unadjusted draw.
func bonusPayment(d Draw, portfolio, minMultiple float64) float64 {
	excess := portfolio - d.Amount
	if d.Unadjusted <= 0 {
		return math.Max(math.Min(d.Bonus, excess), 0)
	}
	if excess/d.Unadjusted <= minMultiple {
		return 0
	}
	return math.Max(math.Min(d.Bonus, excess-minMultiple*d.Unadjusted), 0)
}

// survives reports whether the cycle at offset a completes without failing. It stops at
// the first failure since failure is sticky.
func (r *run) survives(a int) bool {
	st := r.newCycleState()
	for b := 0; b < r.in.Horizon.Years; b++ {
		r.step(st, r.inputs(a, b))
		if st.failed {
			return false
		}
	}
	return true
}

// cycle runs the full horizon from offset a.
func (r *run) cycle(a int) domain.CycleOutcome {
	years := r.in.Horizon.Years
	st := r.newCycleState()
	out := domain.CycleOutcome{
		Start:          a,
		Values:         make([]float64, 0, years+1),
		Withdrawals:    make([]float64, years),
		PortfolioDraws: make([]float64, years),
		AnnuityIncome:  make([]float64, years),
	}
	out.Values = append(out.Values, st.portfolio)

	var mortAdjusted float64
	for b := 0; b < years; b++ {
		y := r.step(st, r.inputs(a, b))
		total := y.draw + y.bonus + y.annuity
		out.Withdrawals[b] = total
		out.PortfolioDraws[b] = y.draw + y.bonus
		out.AnnuityIncome[b] = y.annuity
		out.Values = append(out.Values, y.value)

		weighted := total * r.survival[b]
		mortAdjusted += weighted
		out.MortalityDiscountedTotal += weighted / math.Pow(1+spotRate(r.in.Returns.SpotCurve, b), float64(b))
	}
	out.Failed = st.failed
	out.EndValue = st.portfolio
	out.AvgWithdrawal = Mean(out.Withdrawals)
	out.AvgMortalityAdjusted = mortAdjusted / float64(years)
	return out
}

// spotRate reads the discount rate for year b, holding the last point beyond the curve.
func spotRate(curve []float64, b int) float64 {
	if len(curve) == 0 {
		return 0
	}
	if b >= len(curve) {
		b = len(curve) - 1
	}
	return curve[b]
}

func aggregate(cycles []domain.CycleOutcome) *domain.SimulationResult {
	n := len(cycles)
	ends := make([]float64, n)
	avgW := make([]float64, n)
	avgM := make([]float64, n)
	disc := make([]float64, n)
	values := make([][]float64, n)
	draws := make([][]float64, n)
	var failed int
	var obs []float64
	for i, c := range cycles {
		if c.Failed {
			failed++
		}
		ends[i] = c.EndValue
		avgW[i] = c.AvgWithdrawal
		avgM[i] = c.AvgMortalityAdjusted
		disc[i] = c.MortalityDiscountedTotal
		values[i] = c.Values
		draws[i] = c.Withdrawals
		obs = append(obs, c.Withdrawals...)
	}
	return &domain.SimulationResult{
		FailureRate:                      float64(failed) / float64(n),
		EndValueDeciles:                  Deciles(ends),
		Cycles:                           cycles,
		ValueFan:                         FanChart(values, FanPercentiles),
		WithdrawalFan:                    FanChart(draws, FanPercentiles),
		Histogram:                        WithdrawalHistogram(obs),
		AvgWithdrawal:                    Mean(avgW),
		AvgMortalityAdjustedWithdrawal:   Mean(avgM),
		SumMortalityDiscountedWithdrawal: Mean(disc),
		AvgEndValue:                      Mean(ends),
	}
}
