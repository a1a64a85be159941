package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// ConsoleFormatter renders a plain-text summary for the terminal.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(r *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	s := Summarize(r)
	cur := func(v float64) string { return FormatCurrency(v, s.Currency) }

	title := "SAFE WITHDRAWAL RATE BACK-TEST"
	if r.Name != "" {
		title += ": " + strings.ToUpper(r.Name)
	}
	fmt.Fprintln(&buf, title)
	fmt.Fprintln(&buf, strings.Repeat("=", len(title)))
	if !r.ForwardUpdated.IsZero() {
		fmt.Fprintf(&buf, "Forward curves as of %s\n", r.ForwardUpdated.Format("2 January 2006"))
	}
	if len(r.SimulationYears) > 0 {
		fmt.Fprintf(&buf, "Cycles starting %d to %d\n", r.SimulationYears[0], r.SimulationYears[len(r.SimulationYears)-1])
	}

	if r.Simulation != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "SIMULATION")
		fmt.Fprintln(&buf, strings.Repeat("-", 40))
		fmt.Fprintf(&buf, "Cycles simulated:        %d\n", s.Cycles)
		fmt.Fprintf(&buf, "Failure rate:            %s\n", FormatPercentage(s.FailureRate))
		if len(s.FailedYears) > 0 {
			fmt.Fprintf(&buf, "Failed cycles starting:  %s\n", joinInts(s.FailedYears))
		}
		fmt.Fprintf(&buf, "Average withdrawal:      %s\n", cur(s.AvgWithdrawal))
		fmt.Fprintf(&buf, "Mortality adjusted:      %s\n", cur(r.Simulation.AvgMortalityAdjustedWithdrawal))
		fmt.Fprintf(&buf, "Discounted lifetime sum: %s\n", cur(r.Simulation.SumMortalityDiscountedWithdrawal))
		fmt.Fprintf(&buf, "Median end value:        %s\n", cur(s.MedianEndValue))
		fmt.Fprintf(&buf, "Average end value:       %s\n", cur(s.AvgEndValue))
		if d := r.Simulation.EndValueDeciles; len(d) > 0 {
			parts := make([]string, len(d))
			for i, v := range d {
				parts[i] = cur(v)
			}
			fmt.Fprintf(&buf, "End value deciles:       %s\n", strings.Join(parts, " "))
		}
	}

	if r.SWR != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "SAFE WITHDRAWAL RATE")
		fmt.Fprintln(&buf, strings.Repeat("-", 40))
		fmt.Fprintf(&buf, "Safest SWR:              %s (cycle starting %d)\n", FormatRate(s.SafestSWR), s.WorstCycleYear)
		fmt.Fprintf(&buf, "Best cycle SWR:          %s (cycle starting %d)\n", FormatRate(s.BestSWR), s.BestCycleYear)
		if len(r.SWR.ByYear) > 0 {
			fmt.Fprintf(&buf, "Safest SWR, year 1:      %s\n", FormatRate(r.SWR.ByYear[0]))
			fmt.Fprintf(&buf, "Safest SWR, final year:  %s\n", FormatRate(r.SWR.ByYear[len(r.SWR.ByYear)-1]))
		}
	}

	if o := r.Optimisation; o != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "ASSET MIX")
		fmt.Fprintln(&buf, strings.Repeat("-", 40))
		fmt.Fprintf(&buf, "Mixes evaluated:         %d\n", len(o.Evaluated))
		fmt.Fprintf(&buf, "Lowest failure:          %s\n", mixLine(o.MinFailure, s.Currency))
		fmt.Fprintf(&buf, "Highest value:           %s\n", mixLine(o.MaxValue, s.Currency))
	}

	if len(r.Assumptions) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "ASSUMPTIONS")
		for _, a := range r.Assumptions {
			fmt.Fprintf(&buf, "  - %s\n", a)
		}
	}
	return buf.Bytes(), nil
}

func mixLine(m domain.MixResult, currency string) string {
	return fmt.Sprintf("%.0f/%.0f/%.0f equity/bond/index bond, failure %s, average end value %s",
		m.Equity, m.Bond, m.IndexBond, FormatPercentage(m.FailureRate), FormatCurrency(m.AvgEndValue, currency))
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = intToString(x)
	}
	return strings.Join(parts, ", ")
}
