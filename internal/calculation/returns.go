package calculation

import (
	"fmt"
	"math"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// bondTermYears is the maturity assumed when repricing bond yields.
const bondTermYears = 10

// PresentValue is the Excel PV of nper level payments plus a final face value, discounted
// at rate per period.
func PresentValue(rate float64, nper int, pmt, fv float64) float64 {
	var pv float64
	for a := 1; a <= nper; a++ {
		pv += pmt / math.Pow(1+rate, float64(a))
	}
	return pv + fv/math.Pow(1+rate, float64(nper))
}

// PrepareReturns converts nominal price, yield and CPI levels into annual real returns net of
// tax and fees, adjusts the forward curves, and bootstraps the index-bond spot curve. It is a
// pure function of its inputs.
func PrepareReturns(raw domain.RawSeries, p domain.ReturnParams) (*domain.ReturnSeries, error) {
	n := len(raw.Equity)
	if n < 2 {
		return nil, &InsufficientHistoryError{Series: "equity", Points: n}
	}
	for name, s := range map[string][]float64{
		"bond": raw.Bond, "index bond": raw.IndexBond, "cpi": raw.CPI, "fx": raw.FX,
	} {
		if len(s) != n {
			return nil, fmt.Errorf("%w: %s has %d points, equity has %d", ErrMisalignedSeries, name, len(s), n)
		}
	}
	for i := 0; i < n; i++ {
		if raw.Equity[i] <= 0 || raw.CPI[i] <= 0 || raw.FX[i] <= 0 {
			return nil, fmt.Errorf("%w: non-positive equity, cpi or fx level at index %d", ErrInvalidSeriesValue, i)
		}
	}

	out := &domain.ReturnSeries{
		EquityReal:    make([]float64, 0, n-1),
		BondReal:      make([]float64, 0, n-1),
		IndexBondReal: make([]float64, 0, n-1),
		CPIChange:     make([]float64, 0, n-1),
	}

	for a := 0; a < n-1; a++ {
		inflation := raw.CPI[a+1]/raw.CPI[a] - 1
		out.CPIChange = append(out.CPIChange, inflation)

		num := raw.Equity[a+1] / raw.FX[a+1]
		denom := raw.Equity[a] / raw.FX[a]
		out.EquityReal = append(out.EquityReal, (num/denom-1-p.Fees)*(1-p.EquityTax)-inflation)

		out.BondReal = append(out.BondReal, bondReturn(raw.Bond[a], raw.Bond[a+1], p.BondCoupon, p)-inflation)
		out.IndexBondReal = append(out.IndexBondReal, bondReturn(raw.IndexBond[a], raw.IndexBond[a+1], p.IndexBondCoupon, p))
	}

	out.BondForward = taxForward(raw.BondForward, p)
	out.IndexBondForward = taxForward(raw.IndexBondForward, p)
	out.SpotCurve = SpotCurve(raw.IndexBondForward)

	if p.Circular {
		out.EquityReal = wrap(out.EquityReal)
		out.BondReal = wrap(out.BondReal)
		out.IndexBondReal = wrap(out.IndexBondReal)
		out.CPIChange = wrap(out.CPIChange)
	}
	return out, nil
}

// bondReturn reprices a bond bought at yield y0 and sold a year later at y1, and adds the
// after-tax running yield.
func bondReturn(y0, y1, coupon float64, p domain.ReturnParams) float64 {
	pvNew := PresentValue(y1/100, bondTermYears, coupon, 100)
	pvOld := PresentValue(y0/100, bondTermYears, coupon, 100)
	return (pvNew/pvOld-1-p.Fees)*(1-p.BondTax) + (y0/100)*(1-p.BondTax)
}

func taxForward(curve []float64, p domain.ReturnParams) []float64 {
	out := make([]float64, len(curve))
	for i, f := range curve {
		out[i] = (f/100 - p.Fees) * (1 - p.BondTax)
	}
	return out
}

// SpotCurve compounds a forward curve (in percent) into spot rates (fractions).
func SpotCurve(forward []float64) []float64 {
	spot := make([]float64, len(forward))
	for n, f := range forward {
		if n == 0 {
			spot[0] = f / 100
			continue
		}
		spot[n] = math.Pow(math.Pow(1+spot[n-1], float64(n))*(1+f/100), 1/float64(n+1)) - 1
	}
	return spot
}

// wrap appends all but the last observation to the end of s, so every start index in the
// original sample has a full run of future observations.
func wrap(s []float64) []float64 {
	if len(s) < 2 {
		return s
	}
	out := make([]float64, 0, 2*len(s)-1)
	out = append(out, s...)
	return append(out, s[:len(s)-1]...)
}
