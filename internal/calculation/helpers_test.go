package calculation

import (
	"math"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// syntheticReturns builds a deterministic, bumpy real-return history of n years with a few
// bad stretches so that some cycles fail at a 4% draw.
func syntheticReturns(n int) *domain.ReturnSeries {
	rs := &domain.ReturnSeries{
		EquityReal:    make([]float64, n),
		BondReal:      make([]float64, n),
		IndexBondReal: make([]float64, n),
		CPIChange:     make([]float64, n),
	}
	for i := 0; i < n; i++ {
		x := float64(i)
		rs.EquityReal[i] = 0.05 + 0.18*math.Sin(x*0.9) - 0.04*math.Cos(x*0.23)
		rs.BondReal[i] = 0.015 + 0.06*math.Sin(x*0.5+1)
		rs.IndexBondReal[i] = 0.01 + 0.03*math.Cos(x*0.7)
		rs.CPIChange[i] = 0.03 + 0.02*math.Sin(x*0.3)
	}
	for i := 0; i < 60; i++ {
		rs.BondForward = append(rs.BondForward, 0.04)
		rs.IndexBondForward = append(rs.IndexBondForward, 0.005+0.0002*float64(i))
	}
	rs.SpotCurve = SpotCurve(percentCurve(rs.IndexBondForward))
	return rs
}

func percentCurve(fractions []float64) []float64 {
	out := make([]float64, len(fractions))
	for i, f := range fractions {
		out[i] = f * 100
	}
	return out
}

// scenarioA is a 1,000,000 start, 40,000 constant draw, 30 year, 60/0/40 run with no taxes.
func scenarioA(rs *domain.ReturnSeries) domain.SimulationInput {
	return domain.SimulationInput{
		Returns:   rs,
		Mix:       domain.AssetMix{Equity: 0.6, IndexBond: 0.4},
		Horizon:   domain.HorizonParams{StartSum: 1_000_000, Years: 30, StartAge: 50},
		Policy:    domain.PolicyParams{Kind: domain.PolicyConstant, WithdrawalAmount: 40_000},
		Direction: domain.DirectionBack,
	}
}
