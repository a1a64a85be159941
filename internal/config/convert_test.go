package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/swr-simulator/internal/domain"
)

func TestToReturnParams(t *testing.T) {
	config := DefaultConfiguration()
	config.EquityTax = 15
	config.BondTax = 20
	config.Fees = 50
	config.CircularSimulation = false

	p := ToReturnParams(config)
	assert.InDelta(t, 0.15, p.EquityTax, 1e-12)
	assert.InDelta(t, 0.20, p.BondTax, 1e-12)
	assert.InDelta(t, 0.005, p.Fees, 1e-12)
	assert.Equal(t, 3.0, p.BondCoupon)
	assert.Equal(t, 0.5, p.IndexBondCoupon)
	assert.False(t, p.Circular)
}

func TestToSimulationInput(t *testing.T) {
	config := NewInputParser().CreateExampleConfiguration()
	config.AnnualAdjust = []float64{100, 80}
	config.YaleWeight = 70

	in := ToSimulationInput(config)

	assert.Equal(t, domain.PolicyConstantFlex, in.Policy.Kind)
	assert.InDelta(t, 0.005, in.Policy.AnnualIncrease, 1e-12)
	assert.InDelta(t, 0.20, in.Policy.DrawTax, 1e-12)
	assert.Equal(t, []float64{1, 0.8}, in.Policy.DrawAdjust)
	assert.InDelta(t, 0.7, in.Policy.YaleWeight, 1e-12)
	assert.True(t, in.Policy.SpringBack)
	assert.True(t, in.Policy.NetOtherIncome)

	assert.Equal(t, 35, in.Horizon.Years)
	assert.Equal(t, 2, in.Horizon.YearsToWithdrawal)
	assert.InDelta(t, 0.02, in.Horizon.ContributionIncrease, 1e-12)

	mix := in.Mix
	assert.InDelta(t, 1.0, mix.Equity+mix.Bond+mix.IndexBond, 1e-12)
	assert.InDelta(t, 0.6, mix.Equity, 1e-12)

	require.Len(t, in.Annuities, 2)
	state := in.Annuities[1]
	assert.Equal(t, domain.IndexNominal, state.Indexation)
	assert.InDelta(t, 0.025, state.Increase, 1e-12)
	assert.InDelta(t, in.Policy.AnnualIncrease, state.AccrualRate, 1e-12)
	assert.Equal(t, 10, state.StartYear)

	assert.Nil(t, in.Returns)
	assert.Nil(t, in.SafeCurve)
}
