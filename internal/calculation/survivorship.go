package calculation

import "github.com/rpgo/swr-simulator/internal/domain"

const (
	mortalityTableFirstAge = 65
	mortalityTableLastAge  = 105
)

// SurvivorshipWeights returns, for each of years+1 simulation years, the probability of
// being alive at that age. Ages below the table count as certain survival and ages beyond
// it as zero. The weights scale recorded withdrawals only; they never touch the portfolio.
// Without a table every weight is 1.
func SurvivorshipWeights(years, startAge int, table domain.MortalityTable) []float64 {
	weights := make([]float64, years+1)
	if len(table.Male) == 0 && len(table.Female) == 0 {
		for a := range weights {
			weights[a] = 1
		}
		return weights
	}
	for a := range weights {
		age := startAge + a
		switch {
		case age < mortalityTableFirstAge:
			weights[a] = 1
		case age > mortalityTableLastAge:
			weights[a] = 0
		default:
			i := age - mortalityTableFirstAge
			weights[a] = (0.5*at(table.Male, i) + 0.5*at(table.Female, i)) / 100
		}
	}
	return weights
}

// at reads s[i], or 0 if the table is shorter than expected.
func at(s []float64, i int) float64 {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}
