package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/swr-simulator/internal/calculation"
	"github.com/rpgo/swr-simulator/internal/config"
	"github.com/rpgo/swr-simulator/internal/domain"
	"github.com/rpgo/swr-simulator/internal/scenario"
)

const exampleScenario = "../../testdata/example_scenario.yaml"

// loadExample reads the example scenario and points its data paths at the repo's testdata.
func loadExample(t *testing.T) *domain.Configuration {
	t.Helper()
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(exampleScenario)
	require.NoError(t, err)

	root, err := filepath.Abs("../..")
	require.NoError(t, err)
	cfg.Data.Historic = filepath.Join(root, cfg.Data.Historic)
	cfg.Data.Forward = filepath.Join(root, cfg.Data.Forward)
	cfg.Data.Mortality = filepath.Join(root, cfg.Data.Mortality)
	return cfg
}

func TestEndToEndScenario(t *testing.T) {
	cfg := loadExample(t)
	require.NoError(t, config.NewInputParser().ValidateConfiguration(cfg))

	sc, store, err := scenario.Load(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2023, store.Historic.Years[len(store.Historic.Years)-1])
	assert.False(t, sc.ForwardUpdated.IsZero())

	engine := calculation.NewCalculationEngine()
	report, err := engine.RunScenario(context.Background(), sc)
	require.NoError(t, err)
	require.NotNil(t, report.Simulation)
	require.NotNil(t, report.SWR)

	sim := report.Simulation
	assert.Len(t, report.SimulationYears, len(sim.Cycles))
	assert.GreaterOrEqual(t, sim.FailureRate, 0.0)
	assert.LessOrEqual(t, sim.FailureRate, 1.0)
	assert.Len(t, sim.EndValueDeciles, 11)
	assert.Len(t, report.SWR.ByYear, cfg.Years)
	assert.Len(t, report.SWR.ByCycle, len(sim.Cycles))
	assert.Equal(t, "GBP", report.Currency)
	assert.NotEmpty(t, report.Assumptions)

	for _, c := range sim.Cycles {
		assert.Len(t, c.Values, cfg.Years+1)
		assert.Len(t, c.Withdrawals, cfg.Years)
		// Contributions only during accumulation.
		for b := 0; b < cfg.YearsToWithdrawals; b++ {
			assert.Zero(t, c.PortfolioDraws[b])
		}
		// Both annuities pay from year 10.
		assert.Zero(t, c.AnnuityIncome[8])
		assert.Positive(t, c.AnnuityIncome[cfg.Years-1])
		for _, v := range c.Values {
			assert.GreaterOrEqual(t, v, 0.0)
		}
	}
}

func TestEndToEndOptimisation(t *testing.T) {
	cfg := loadExample(t)
	cfg.DataDirection = domain.DirectionBack
	cfg.Annuities = nil
	cfg.Years = 20

	sc, _, err := scenario.Load(cfg)
	require.NoError(t, err)

	report, err := calculation.NewCalculationEngine().Optimise(context.Background(), sc)
	require.NoError(t, err)
	require.NotNil(t, report.Optimisation)

	opt := report.Optimisation
	assert.Len(t, opt.Evaluated, 11)
	for _, m := range opt.Evaluated {
		assert.LessOrEqual(t, opt.MinFailure.FailureRate, m.FailureRate)
		if m.FailureRate == opt.MaxValue.FailureRate {
			assert.GreaterOrEqual(t, opt.MaxValue.AvgEndValue, m.AvgEndValue)
		}
		assert.InDelta(t, 100, m.Equity+m.Bond+m.IndexBond, 1e-9)
	}
	assert.Equal(t, opt.MinFailure.FailureRate, opt.MaxValue.FailureRate)
}

func TestOutOfRangeYears(t *testing.T) {
	cfg := loadExample(t)
	cfg.DataStartYear = 1700

	_, _, err := scenario.Load(cfg)
	assert.Error(t, err)
}
