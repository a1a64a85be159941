package calculation

import (
	"fmt"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// AnnuityState tracks one annuity through a cycle. Before purchase Target accrues; at the
// start year the target income is bought from the portfolio, in full or in part, and Income
// then evolves with the annuity's indexation.
type AnnuityState struct {
	Spec      domain.AnnuitySpec
	Target    float64 // gross income the purchase aims for
	Income    float64 // gross income being paid
	Purchased bool
	Partial   bool
}

// NewAnnuityStates initialises the ledger for one cycle.
func NewAnnuityStates(specs []domain.AnnuitySpec, withdrawal float64) ([]AnnuityState, error) {
	if len(specs) > domain.MaxAnnuities {
		return nil, fmt.Errorf("%w: %d configured, at most %d", ErrTooManyAnnuities, len(specs), domain.MaxAnnuities)
	}
	out := make([]AnnuityState, 0, len(specs))
	for _, s := range specs {
		if s.PercentOfWithdrawal <= 0 {
			continue
		}
		out = append(out, AnnuityState{
			Spec:   s,
			Target: withdrawal * s.PercentOfWithdrawal / 100 / (1 - s.TaxRate),
		})
	}
	return out, nil
}

// NetIncome is the after-tax annuity income paid this year.
func (s *AnnuityState) NetIncome() float64 {
	return s.Income * (1 - s.Spec.TaxRate)
}

// purchaseYear is the 0-based year in which the annuity is bought.
func (s *AnnuityState) purchaseYear() int {
	if s.Spec.StartYear < 1 {
		return 0
	}
	return s.Spec.StartYear - 1
}

// advanceAnnuities applies accrual and purchases for year b and returns the portfolio left
// after paying for any purchases.
func advanceAnnuities(states []AnnuityState, b int, portfolio, drawTax float64) float64 {
	for i := range states {
		s := &states[i]
		if s.Purchased {
			continue
		}
		py := s.purchaseYear()
		switch {
		case b > 0 && b < py:
			s.Target *= 1 + s.Spec.AccrualRate
		case b == py:
			s.Target = netTarget(states, i)
			portfolio = s.purchase(portfolio, drawTax)
		}
	}
	return portfolio
}

// netTarget reduces annuity i's target by the income of annuities already paying from
// strictly earlier start years, so staggered annuities top each other up rather than stack.
func netTarget(states []AnnuityState, i int) float64 {
	s := &states[i]
	var earlier float64
	for j := range states {
		o := &states[j]
		if j != i && o.Purchased && o.Spec.StartYear < s.Spec.StartYear {
			earlier += o.NetIncome()
		}
	}
	target := s.Target - earlier/(1-s.Spec.TaxRate)
	if target < 0 {
		return 0
	}
	return target
}

func (s *AnnuityState) purchase(portfolio, drawTax float64) float64 {
	s.Purchased = true
	cost := 0.0
	if s.Spec.Price > 0 {
		cost = s.Target / (s.Spec.Price / 100) / (1 - drawTax)
	}
	if portfolio >= cost {
		s.Income = s.Target
		return portfolio - cost
	}
	s.Partial = true
	s.Income = s.Target * portfolio / cost
	return 0
}

// indexAnnuities moves each paying annuity's income forward one year in real terms.
func indexAnnuities(states []AnnuityState, cpiChange float64) {
	for i := range states {
		s := &states[i]
		if !s.Purchased {
			continue
		}
		switch s.Spec.Indexation {
		case domain.IndexFixed, "":
			s.Income /= 1 + cpiChange
		case domain.IndexEscalating:
			s.Income *= (1 + s.Spec.Increase) / (1 + cpiChange)
		case domain.IndexNominal:
			s.Income *= 1 + s.Spec.Increase
		case domain.IndexReal:
		}
	}
}

// totalNetIncome sums the after-tax income of every annuity.
func totalNetIncome(states []AnnuityState) float64 {
	var total float64
	for i := range states {
		total += states[i].NetIncome()
	}
	return total
}
