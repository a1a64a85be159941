package config

import (
	"github.com/rpgo/swr-simulator/internal/domain"
)

// ToReturnParams converts the user's percent and basis-point figures into the fractions the
// return preparer uses. Coupons stay per 100 face value.
func ToReturnParams(c *domain.Configuration) domain.ReturnParams {
	return domain.ReturnParams{
		EquityTax:       c.EquityTax / 100,
		BondTax:         c.BondTax / 100,
		Fees:            c.Fees / 10000,
		BondCoupon:      c.BondCoupon,
		IndexBondCoupon: c.IndexBondCoupon,
		Circular:        bool(c.CircularSimulation),
	}
}

// ToSimulationInput converts a validated configuration into engine inputs. Returns,
// mortality and the safe curve are left for the caller to fill.
func ToSimulationInput(c *domain.Configuration) domain.SimulationInput {
	adjust := make([]float64, len(c.AnnualAdjust))
	for i, a := range c.AnnualAdjust {
		adjust[i] = a / 100
	}
	increase := c.AnnualWithdrawalInc / 100

	annuities := make([]domain.AnnuitySpec, 0, len(c.Annuities))
	for _, a := range c.Annuities {
		annuities = append(annuities, domain.AnnuitySpec{
			Name:                a.Name,
			PercentOfWithdrawal: a.PercentWithdrawal,
			StartYear:           a.StartYear,
			Price:               a.Price,
			TaxRate:             a.TaxRate / 100,
			Indexation:          a.Option,
			Increase:            a.Increase / 100,
			AccrualRate:         increase,
		})
	}

	return domain.SimulationInput{
		Mix: c.Mix(),
		Horizon: domain.HorizonParams{
			StartSum:             c.StartSum,
			Years:                c.Years,
			StartAge:             c.StartSimulationAge,
			YearsToWithdrawal:    c.YearsToWithdrawals,
			Contribution:         c.Contribution,
			ContributionIncrease: c.ContributionIncrease / 100,
		},
		Policy: domain.PolicyParams{
			Kind:               c.DynamicOption,
			WithdrawalAmount:   c.WithdrawalAmount,
			AnnualIncrease:     increase,
			DrawTax:            c.DrawTax / 100,
			DrawAdjust:         adjust,
			BonusTarget:        c.BonusTarget,
			TargetPercent:      c.TargetWithdrawalPercent,
			MinWithdrawalFloor: c.MinWithdrawalFloor,
			FlexDecrease:       c.FlexRealDecrease,
			FlexIncrease:       c.FlexRealIncrease,
			YearsNoFlex:        c.YearsNoFlex,
			SpringBack:         bool(c.SpringBack),
			YaleWeight:         c.YaleWeight / 100,
			VanguardCeiling:    c.VanguardCeiling,
			VanguardFloor:      c.VanguardFloor,
			NetOtherIncome:     bool(c.OtherIncome),
		},
		Annuities: annuities,
		Direction: c.DataDirection,
	}
}
