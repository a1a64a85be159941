package calculation

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/swr-simulator/internal/domain"
)

func runSim(t *testing.T, in domain.SimulationInput) *domain.SimulationResult {
	t.Helper()
	res, err := NewSimulator(nil, 4).Run(context.Background(), in)
	require.NoError(t, err)
	return res
}

// bruteForceFailureRate re-derives the failure rate of a constant draw with no taxes.
func bruteForceFailureRate(rs *domain.ReturnSeries, mix domain.AssetMix, start, draw float64, years int) float64 {
	cycles := len(rs.EquityReal) - years
	failures := 0
	for a := 0; a < cycles; a++ {
		p := start
		failed := false
		for b := 0; b < years; b++ {
			if draw > p {
				failed = true
			}
			p = math.Max(p-draw, 0)
			if p > 0 {
				p *= 1 + rs.EquityReal[a+b]*mix.Equity + rs.BondReal[a+b]*mix.Bond + rs.IndexBondReal[a+b]*mix.IndexBond
			}
		}
		if failed {
			failures++
		}
	}
	return float64(failures) / float64(cycles)
}

func TestRunScenarioA(t *testing.T) {
	rs := syntheticReturns(150)
	in := scenarioA(rs)
	res := runSim(t, in)

	want := bruteForceFailureRate(rs, in.Mix, 1_000_000, 40_000, 30)
	assert.InDelta(t, want, res.FailureRate, 1e-12)
	assert.Len(t, res.Cycles, 120)

	for _, draw := range []float64{20_000, 60_000, 90_000} {
		in.Policy.WithdrawalAmount = draw
		res := runSim(t, in)
		assert.InDelta(t, bruteForceFailureRate(rs, in.Mix, 1_000_000, draw, 30), res.FailureRate, 1e-12, "draw %.0f", draw)
	}
}

func TestRunCycleProperties(t *testing.T) {
	in := scenarioA(syntheticReturns(120))
	in.Policy.WithdrawalAmount = 70_000
	res := runSim(t, in)

	var failures int
	for _, c := range res.Cycles {
		require.Len(t, c.Values, 31)
		require.Len(t, c.Withdrawals, 30)
		assert.Equal(t, 1_000_000.0, c.Values[0])
		assert.GreaterOrEqual(t, c.EndValue, 0.0)
		for _, v := range c.Values {
			assert.GreaterOrEqual(t, v, 0.0)
		}

		short := false
		for _, d := range c.PortfolioDraws {
			if d < 70_000-1e-9 {
				short = true
			}
		}
		assert.Equal(t, short, c.Failed, "cycle %d fails iff a draw exceeded the portfolio", c.Start)
		if c.Failed {
			failures++
		}
	}
	assert.InDelta(t, float64(failures)/float64(len(res.Cycles)), res.FailureRate, 1e-12)
	assert.Len(t, res.EndValueDeciles, 11)
	assert.Len(t, res.ValueFan.Series[0], 31)
	assert.Len(t, res.WithdrawalFan.Series[0], 30)
}

func TestRunAggregates(t *testing.T) {
	in := scenarioA(syntheticReturns(80))
	in.Policy.WithdrawalAmount = 10_000
	res := runSim(t, in)

	// A 1% draw never fails here, so every recorded withdrawal is the full draw.
	assert.Zero(t, res.FailureRate)
	assert.InDelta(t, 10_000, res.AvgWithdrawal, 1e-9)
	assert.InDelta(t, 10_000, res.AvgMortalityAdjustedWithdrawal, 1e-9)
	assert.Equal(t, 1000.0, res.Histogram.BinWidth)
	assert.Equal(t, []float64{1}, nonZero(res.Histogram.Frequencies))

	var discounted float64
	for b := 0; b < 30; b++ {
		discounted += 10_000 / math.Pow(1+spotRate(in.Returns.SpotCurve, b), float64(b))
	}
	assert.InDelta(t, discounted, res.SumMortalityDiscountedWithdrawal, 1e-6)
	assert.Less(t, res.SumMortalityDiscountedWithdrawal, 300_000.0)
}

func nonZero(xs []float64) []float64 {
	var out []float64
	for _, x := range xs {
		if x != 0 {
			out = append(out, x)
		}
	}
	return out
}

func TestRunMortalityWeighting(t *testing.T) {
	in := scenarioA(syntheticReturns(80))
	in.Policy.WithdrawalAmount = 10_000
	in.Horizon.StartAge = 90
	in.Mortality = domain.MortalityTable{Male: make([]float64, 41), Female: make([]float64, 41)}
	for i := range in.Mortality.Male {
		in.Mortality.Male[i], in.Mortality.Female[i] = 50, 50
	}
	res := runSim(t, in)

	// Alive at 50% from age 90 to 105, then zero: 16 of 30 years count at half weight.
	assert.InDelta(t, 10_000*0.5*16/30, res.AvgMortalityAdjustedWithdrawal, 1e-9)
	assert.InDelta(t, 10_000, res.AvgWithdrawal, 1e-9)
}

func TestRunAccumulationBoundaries(t *testing.T) {
	rs := syntheticReturns(90)

	t.Run("zero years to withdrawal matches no accumulation", func(t *testing.T) {
		plain := scenarioA(rs)
		withPhase := scenarioA(rs)
		withPhase.Horizon.YearsToWithdrawal = 0
		withPhase.Horizon.Contribution = 25_000
		withPhase.Horizon.ContributionIncrease = 0.02
		assert.Equal(t, runSim(t, plain), runSim(t, withPhase))
	})

	flat := &domain.ReturnSeries{
		EquityReal:    make([]float64, 40),
		BondReal:      make([]float64, 40),
		IndexBondReal: make([]float64, 40),
		CPIChange:     make([]float64, 40),
	}
	in := scenarioA(flat)
	in.Horizon.Years = 10
	in.Horizon.YearsToWithdrawal = 5

	t.Run("zero contribution leaves the portfolio alone", func(t *testing.T) {
		res := runSim(t, in)
		c := res.Cycles[0]
		for b := 1; b <= 5; b++ {
			assert.Equal(t, 1_000_000.0, c.Values[b])
			assert.Zero(t, c.Withdrawals[b-1])
		}
		assert.InDelta(t, 960_000, c.Values[6], 1e-9)
	})

	t.Run("contributions grow before draws start", func(t *testing.T) {
		withContrib := in
		withContrib.Horizon.Contribution = 10_000
		withContrib.Horizon.ContributionIncrease = 0.1
		c := runSim(t, withContrib).Cycles[0]
		assert.InDelta(t, 1_010_000, c.Values[1], 1e-9)
		assert.InDelta(t, 1_021_000, c.Values[2], 1e-9)
	})
}

func TestRunForwardDirection(t *testing.T) {
	rs := syntheticReturns(60)
	in := scenarioA(rs)
	in.Direction = domain.DirectionForward
	in.Mix = domain.AssetMix{Equity: 0.5, Bond: 0.3, IndexBond: 0.2}
	in.Horizon.Years = 2
	res := runSim(t, in)

	c := res.Cycles[3]
	p := 1_000_000.0 - 40_000
	p *= 1 + rs.EquityReal[3]*0.5 + (rs.BondForward[0]-rs.CPIChange[3])*0.3 + rs.IndexBondForward[0]*0.2
	assert.InDelta(t, p, c.Values[1], 1e-6)

	in.Horizon.Years = 70
	in.Returns = syntheticReturns(200)
	_, err := NewSimulator(nil, 1).Run(context.Background(), in)
	assert.ErrorIs(t, err, ErrForwardCurveTooShort)
}

func TestRunAnnuityIncome(t *testing.T) {
	in := scenarioA(syntheticReturns(60))
	in.Direction = domain.DirectionForward
	in.Annuities = []domain.AnnuitySpec{{PercentOfWithdrawal: 100, StartYear: 1, Price: 2, Indexation: domain.IndexReal}}
	res := runSim(t, in)

	c := res.Cycles[0]
	assert.InDelta(t, 20_000, c.AnnuityIncome[0], 1e-9, "partial purchase")
	assert.Equal(t, 0.0, c.Values[1])
	assert.True(t, c.Failed)
	assert.InDelta(t, 20_000, c.Withdrawals[29], 1e-9)
}

func TestRunErrors(t *testing.T) {
	sim := NewSimulator(nil, 2)

	in := scenarioA(syntheticReturns(30))
	_, err := sim.Run(context.Background(), in)
	assert.ErrorIs(t, err, ErrNoCycles)

	in = scenarioA(nil)
	_, err = sim.Run(context.Background(), in)
	assert.ErrorIs(t, err, ErrNoCycles)

	in = scenarioA(syntheticReturns(60))
	in.Policy.Kind = "unknown"
	_, err = sim.Run(context.Background(), in)
	assert.ErrorIs(t, err, ErrUnknownPolicy)

	in = scenarioA(syntheticReturns(60))
	in.Annuities = make([]domain.AnnuitySpec, 4)
	_, err = sim.Run(context.Background(), in)
	assert.ErrorIs(t, err, ErrTooManyAnnuities)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sim.Run(ctx, scenarioA(syntheticReturns(60)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMinMultiple(t *testing.T) {
	curve := []float64{4, 5}
	assert.InDelta(t, 25, minMultiple(curve, 0), 1e-12)
	assert.InDelta(t, 25, minMultiple(curve, 1), 1e-12)
	assert.InDelta(t, 20, minMultiple(curve, 2), 1e-12)
	assert.True(t, math.IsInf(minMultiple(curve, 3), 1))
	assert.True(t, math.IsInf(minMultiple([]float64{0}, 0), 1))
}

func TestRunBonusUsesSafeCurve(t *testing.T) {
	in := scenarioA(syntheticReturns(80))
	in.Policy.Kind = domain.PolicyConstantBonus
	in.Policy.BonusTarget = 10_000

	noRoom := runSim(t, in)
	for _, c := range noRoom.Cycles {
		for _, w := range c.Withdrawals {
			assert.LessOrEqual(t, w, 40_000.0+1e-9, "no safe curve means no bonus")
		}
	}

	in.SafeCurve = flatCurve(30, 100)
	res := runSim(t, in)
	c := res.Cycles[0]
	assert.InDelta(t, 40_000, c.Withdrawals[0], 1e-9, "no bonus in the first year")
	assert.InDelta(t, 50_000, c.Withdrawals[1], 1e-9)
}

func TestStepRecordsDrawWhenAnnuityCoversBase(t *testing.T) {
	in := scenarioA(syntheticReturns(80))
	in.Policy.Kind = domain.PolicyConstantBonus
	in.Policy.BonusTarget = 5_000
	in.Policy.DrawAdjust = []float64{1, 1, 2}
	r, err := newRun(in)
	require.NoError(t, err)

	// Annuity income beyond the base draw makes the unadjusted draw negative, while the
	// doubled year-2 adjustment still asks the portfolio for 80,000-50,000.
	st := r.newCycleState()
	st.annuities = []AnnuityState{{Income: 50_000, Purchased: true}}
	yi := r.inputs(0, 2)
	yi.growth = 0
	yi.minMultiple = 25

	out := r.step(st, yi)
	assert.InDelta(t, 30_000, out.draw, 1e-9, "the draw paid is recorded")
	assert.InDelta(t, 10_000, out.bonus, 1e-9, "bonus capped only by the portfolio")
	assert.InDelta(t, 50_000, out.annuity, 1e-9)
	assert.InDelta(t, 1_000_000-30_000-10_000, out.value, 1e-6)
	assert.False(t, st.failed)
}
