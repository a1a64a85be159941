package calculation

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// syntheticRaw builds price, yield and CPI levels for n calendar years from 1900.
func syntheticRaw(n int) domain.RawSeries {
	raw := domain.RawSeries{}
	eq, cpi := 100.0, 100.0
	for i := 0; i < n; i++ {
		x := float64(i)
		raw.Years = append(raw.Years, 1900+i)
		raw.Equity = append(raw.Equity, eq)
		raw.CPI = append(raw.CPI, cpi)
		raw.FX = append(raw.FX, 1)
		raw.Bond = append(raw.Bond, 4+math.Sin(x*0.4))
		raw.IndexBond = append(raw.IndexBond, 1.5+0.5*math.Cos(x*0.3))
		eq *= 1.08 + 0.17*math.Sin(x*0.9)
		cpi *= 1.03 + 0.015*math.Sin(x*0.3)
	}
	for i := 0; i < 50; i++ {
		raw.BondForward = append(raw.BondForward, 4)
		raw.IndexBondForward = append(raw.IndexBondForward, 1+0.02*float64(i))
	}
	return raw
}

func testScenario(n, years int) Scenario {
	return Scenario{
		Name:         "test",
		Raw:          syntheticRaw(n),
		ReturnParams: domain.ReturnParams{BondCoupon: 3, IndexBondCoupon: 0.5},
		Input: domain.SimulationInput{
			Mix:       domain.AssetMix{Equity: 0.6, Bond: 0.2, IndexBond: 0.2},
			Horizon:   domain.HorizonParams{StartSum: 1_000_000, Years: years, StartAge: 60},
			Policy:    domain.PolicyParams{Kind: domain.PolicyConstantFlex, WithdrawalAmount: 40_000, FlexIncrease: 1, FlexDecrease: 1, YearsNoFlex: 1},
			Direction: domain.DirectionForward,
		},
		ForwardUpdated: time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC),
		Assumptions:    []string{"synthetic"},
	}
}

func TestCalculationEngineRunScenario(t *testing.T) {
	ce := NewCalculationEngine()
	ce.SetWorkers(4)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	ce.now = func() time.Time { return fixed }

	report, err := ce.RunScenario(context.Background(), testScenario(60, 20))
	require.NoError(t, err)

	assert.Equal(t, "test", report.Name)
	assert.Equal(t, fixed, report.GeneratedAt)
	require.NotNil(t, report.SWR)
	require.NotNil(t, report.Simulation)
	assert.Nil(t, report.Optimisation)
	assert.Len(t, report.SWR.ByYear, 20)
	assert.Len(t, report.Simulation.Cycles, 39)
	assert.Len(t, report.SimulationYears, 39)
	assert.Equal(t, 1901, report.SimulationYears[0])
	assert.Equal(t, []string{"synthetic"}, report.Assumptions)
}

func TestCalculationEngineModes(t *testing.T) {
	ce := NewCalculationEngine()
	ce.SetLogger(nil)

	swr, err := ce.SearchSWR(context.Background(), testScenario(50, 15))
	require.NoError(t, err)
	assert.NotNil(t, swr.SWR)
	assert.Nil(t, swr.Simulation)

	opt, err := ce.Optimise(context.Background(), testScenario(50, 15))
	require.NoError(t, err)
	require.NotNil(t, opt.Optimisation)
	assert.Len(t, opt.Optimisation.Evaluated, 66)
}

func TestCalculationEngineErrors(t *testing.T) {
	ce := NewCalculationEngine()

	sc := testScenario(50, 15)
	sc.Raw.CPI = sc.Raw.CPI[:10]
	_, err := ce.RunScenario(context.Background(), sc)
	assert.ErrorIs(t, err, ErrMisalignedSeries)

	_, err = ce.RunScenario(context.Background(), testScenario(10, 15))
	assert.ErrorIs(t, err, ErrNoCycles)
}

func TestCycleLabels(t *testing.T) {
	years := []int{2000, 2001, 2002, 2003, 2004}
	assert.Equal(t, []int{2001, 2002}, CycleLabels(years, 2, false))
	// Wrapped series of 7 returns over a 2 year horizon.
	assert.Equal(t, []int{2001, 2002, 2003, 2004, 2001}, CycleLabels(years, 5, true))
	assert.Nil(t, CycleLabels([]int{2000}, 3, false))
}
