package output

import (
	"math"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// Summary is the headline view of a report shared by the text formatters.
type Summary struct {
	Name        string
	Currency    string
	Cycles      int
	FailureRate float64
	FailedYears []int

	MedianEndValue float64
	AvgEndValue    float64
	AvgWithdrawal  float64

	SafestSWR      float64
	WorstCycleYear int
	BestSWR        float64
	BestCycleYear  int
}

// Summarize extracts the headline figures. Sections missing from the report are left zero.
func Summarize(r *domain.Report) Summary {
	s := Summary{Name: r.Name, Currency: r.Currency}
	if sim := r.Simulation; sim != nil {
		s.Cycles = len(sim.Cycles)
		s.FailureRate = sim.FailureRate
		s.AvgEndValue = sim.AvgEndValue
		s.AvgWithdrawal = sim.AvgWithdrawal
		if len(sim.EndValueDeciles) > 5 {
			s.MedianEndValue = sim.EndValueDeciles[5]
		}
		for i, c := range sim.Cycles {
			if c.Failed {
				s.FailedYears = append(s.FailedYears, cycleYear(r, i))
			}
		}
	}
	if swr := r.SWR; swr != nil && len(swr.ByCycle) > 0 {
		s.SafestSWR = swr.Safest
		s.BestSWR = math.Inf(-1)
		worst := math.Inf(1)
		for i, rate := range swr.ByCycle {
			if rate < worst {
				worst = rate
				s.WorstCycleYear = cycleYear(r, i)
			}
			if rate > s.BestSWR {
				s.BestSWR = rate
				s.BestCycleYear = cycleYear(r, i)
			}
		}
	}
	return s
}

// cycleYear labels cycle i by its first calendar year, or its index when unlabelled.
func cycleYear(r *domain.Report, i int) int {
	if i < len(r.SimulationYears) {
		return r.SimulationYears[i]
	}
	return i
}
