package domain

import "time"

// CycleOutcome is the full record of one rolling back-test window.
type CycleOutcome struct {
	Start  int  `json:"start"`
	Failed bool `json:"failed"`

	// Values has years+1 points: the start sum followed by each year-end value.
	Values []float64 `json:"values"`
	// Withdrawals is total after-tax income per year (portfolio draw, bonus and annuities).
	Withdrawals []float64 `json:"withdrawals"`
	// PortfolioDraws is the after-tax part of Withdrawals paid from the portfolio.
	PortfolioDraws []float64 `json:"portfolio_draws"`
	// AnnuityIncome is the after-tax part of Withdrawals paid by annuities.
	AnnuityIncome []float64 `json:"annuity_income"`

	EndValue                 float64 `json:"end_value"`
	AvgWithdrawal            float64 `json:"avg_withdrawal"`
	AvgMortalityAdjusted     float64 `json:"avg_mortality_adjusted"`
	MortalityDiscountedTotal float64 `json:"mortality_discounted_total"`
}

// FanChart holds percentile curves by simulation year. Series[i] is the curve for
// Percentiles[i].
type FanChart struct {
	Percentiles []float64   `json:"percentiles"`
	Series      [][]float64 `json:"series"`
}

// Histogram is a normalized distribution of individual withdrawal observations.
type Histogram struct {
	BinWidth    float64   `json:"bin_width"`
	Edges       []float64 `json:"edges"`
	Frequencies []float64 `json:"frequencies"`
}

// SimulationResult aggregates every cycle of one engine run.
type SimulationResult struct {
	FailureRate     float64        `json:"simulation_fails"`
	EndValueDeciles []float64      `json:"value_decile_data"`
	Cycles          []CycleOutcome `json:"cycles"`
	ValueFan        FanChart       `json:"value_fan"`
	WithdrawalFan   FanChart       `json:"withdrawal_fan"`
	Histogram       Histogram      `json:"withdrawal_histogram"`

	AvgWithdrawal                    float64 `json:"avg_withdrawal"`
	AvgMortalityAdjustedWithdrawal   float64 `json:"avg_mort_adjusted_withdrawal"`
	SumMortalityDiscountedWithdrawal float64 `json:"sum_mort_adjusted_discounted_withdrawal"`
	AvgEndValue                      float64 `json:"avg_end_value"`
}

// ValueStreams returns the per-cycle portfolio value paths.
func (r *SimulationResult) ValueStreams() [][]float64 {
	out := make([][]float64, len(r.Cycles))
	for i, c := range r.Cycles {
		out[i] = c.Values
	}
	return out
}

// WithdrawalStreams returns the per-cycle withdrawal paths.
func (r *SimulationResult) WithdrawalStreams() [][]float64 {
	out := make([][]float64, len(r.Cycles))
	for i, c := range r.Cycles {
		out[i] = c.Withdrawals
	}
	return out
}

// SWRResult is the output of the safe withdrawal rate search, in percent.
type SWRResult struct {
	ByCycle []float64 `json:"max_zero_fail_swr_by_cycle"`
	ByYear  []float64 `json:"max_swr_by_simulation_year"`
	Safest  float64   `json:"safest_swr"`
}

// MixResult records one evaluated asset mix. Weights are percentages.
type MixResult struct {
	Equity      float64 `json:"equity"`
	Bond        float64 `json:"fixed_income_bond"`
	IndexBond   float64 `json:"inflation_linked_bond"`
	FailureRate float64 `json:"fail"`
	AvgEndValue float64 `json:"avg_value"`
}

// OptimisationResult is the outcome of the asset-mix grid search.
type OptimisationResult struct {
	MinFailure MixResult   `json:"min"`
	MaxValue   MixResult   `json:"max"`
	Evaluated  []MixResult `json:"evaluated"`
}

// Report is everything one request produces, ready for formatting.
type Report struct {
	Name            string              `json:"name"`
	Currency        string              `json:"currency"`
	GeneratedAt     time.Time           `json:"generated_at"`
	ForwardUpdated  time.Time           `json:"forward_update_date"`
	SimulationYears []int               `json:"simulation_years"`
	Simulation      *SimulationResult   `json:"simulation,omitempty"`
	SWR             *SWRResult          `json:"swr,omitempty"`
	Optimisation    *OptimisationResult `json:"optimisation,omitempty"`
	Assumptions     []string            `json:"assumptions"`
}
