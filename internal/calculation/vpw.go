package calculation

import "math"

// Variable percentage withdrawal tables. Each row is an age from vpwFirstAge; each table is
// an equity allocation. Rates follow the Bogleheads construction: a beginning-of-year
// annuity payment over the years remaining to age 100, discounted at the allocation's
// blended expected real return.
const (
	vpwFirstAge    = 50
	vpwRows        = 60
	vpwFinalAge    = 100
	vpwStockReturn = 0.050
	vpwBondReturn  = 0.019
)

// vpwEquityBuckets are the equity allocations, in percent, a table exists for.
var vpwEquityBuckets = []int{30, 40, 50, 60, 70}

var vpwTables = buildVPWTables()

func buildVPWTables() map[int][]float64 {
	tables := make(map[int][]float64, len(vpwEquityBuckets))
	for _, bucket := range vpwEquityBuckets {
		e := float64(bucket) / 100
		rate := e*vpwStockReturn + (1-e)*vpwBondReturn
		rows := make([]float64, vpwRows)
		for i := range rows {
			nper := vpwFinalAge - (vpwFirstAge + i)
			if nper < 1 {
				nper = 1
			}
			rows[i] = vpwPayment(rate, nper)
		}
		tables[bucket] = rows
	}
	return tables
}

// vpwPayment is the payment, as a fraction of principal, that exhausts it in nper
// beginning-of-period instalments at the given rate.
func vpwPayment(rate float64, nper int) float64 {
	if nper <= 1 {
		return 1
	}
	if rate == 0 {
		return 1 / float64(nper)
	}
	return rate / ((1 - math.Pow(1+rate, -float64(nper))) * (1 + rate))
}

// VPWRow is the table row used for simulation year b of someone who started at startAge.
func VPWRow(startAge, b int) int {
	return clampRow(startAge + b - vpwFirstAge)
}

func clampRow(row int) int {
	if row < 0 {
		return 0
	}
	if row >= vpwRows {
		return vpwRows - 1
	}
	return row
}

// VPWBucket maps an equity weight (fraction) to the table allocation it is drawn from:
// below 35% uses 30, below 45% uses 40, and so on, with anything from 65% up using 70.
func VPWBucket(equity float64) int {
	pct := equity * 100
	for _, b := range vpwEquityBuckets[:len(vpwEquityBuckets)-1] {
		if pct < float64(b)+5 {
			return b
		}
	}
	return vpwEquityBuckets[len(vpwEquityBuckets)-1]
}

// VPWRate returns the withdrawal fraction for an equity weight and table row.
func VPWRate(equity float64, row int) float64 {
	return vpwTables[VPWBucket(equity)][clampRow(row)]
}
