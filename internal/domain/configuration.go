package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration is the flat scenario parameter object as a user writes it: rates are in
// percent, fees in basis points. It is filled with defaults before decoding so absent keys
// keep their default.
type Configuration struct {
	Name string `yaml:"name" json:"name"`

	Data DataSources `yaml:"data" json:"data"`

	DataStartYear      int           `yaml:"data_start_year" json:"data_start_year"`
	DataEndYear        int           `yaml:"data_end_year" json:"data_end_year"`
	CurrencySet        string        `yaml:"currency_set" json:"currency_set"`
	GeographicSet      string        `yaml:"geographic_set" json:"geographic_set"`
	DataDirection      DataDirection `yaml:"data_direction" json:"data_direction"`
	CircularSimulation Flag          `yaml:"circular_simulation" json:"circular_simulation"`

	EquityTax       float64 `yaml:"equity_tax" json:"equity_tax"`
	BondTax         float64 `yaml:"bond_tax" json:"bond_tax"`
	DrawTax         float64 `yaml:"draw_tax" json:"draw_tax"`
	Fees            float64 `yaml:"fees" json:"fees"`
	BondCoupon      float64 `yaml:"bond_coupon" json:"bond_coupon"`
	IndexBondCoupon float64 `yaml:"index_bond_coupon" json:"index_bond_coupon"`

	AssetMixEquity    float64 `yaml:"asset_mix_equity" json:"asset_mix_equity"`
	AssetMixBond      float64 `yaml:"asset_mix_bond" json:"asset_mix_bond"`
	AssetMixIndexBond float64 `yaml:"asset_mix_index_bond" json:"asset_mix_index_bond"`

	StartSum                float64    `yaml:"start_sum" json:"start_sum"`
	DynamicOption           PolicyKind `yaml:"dynamic_option" json:"dynamic_option"`
	WithdrawalAmount        float64    `yaml:"withdrawal_amount" json:"withdrawal_amount"`
	AnnualWithdrawalInc     float64    `yaml:"annual_withdrawal_inc" json:"annual_withdrawal_inc"`
	BonusTarget             float64    `yaml:"bonus_target" json:"bonus_target"`
	TargetWithdrawalPercent float64    `yaml:"target_withdrawal_percent" json:"target_withdrawal_percent"`
	MinWithdrawalFloor      float64    `yaml:"min_withdrawal_floor" json:"min_withdrawal_floor"`
	FlexRealDecrease        float64    `yaml:"flex_real_decrease" json:"flex_real_decrease"`
	FlexRealIncrease        float64    `yaml:"flex_real_increase" json:"flex_real_increase"`
	YearsNoFlex             int        `yaml:"years_no_flex" json:"years_no_flex"`
	SpringBack              Flag       `yaml:"spring_back" json:"spring_back"`
	YaleWeight              float64    `yaml:"yale_weight" json:"yale_weight"`
	VanguardCeiling         float64    `yaml:"vanguard_ceiling" json:"vanguard_ceiling"`
	VanguardFloor           float64    `yaml:"vanguard_floor" json:"vanguard_floor"`
	OtherIncome             Flag       `yaml:"other_income" json:"other_income"`
	AnnualAdjust            []float64  `yaml:"annualadjust" json:"annualadjust"`

	Annuities []AnnuityConfig `yaml:"annuities" json:"annuities"`

	StartSimulationAge   int     `yaml:"start_simulation_age" json:"start_simulation_age"`
	Years                int     `yaml:"years" json:"years"`
	YearsToWithdrawals   int     `yaml:"years_to_withdrawals" json:"years_to_withdrawals"`
	Contribution         float64 `yaml:"contribution" json:"contribution"`
	ContributionIncrease float64 `yaml:"contribution_increase" json:"contribution_increase"`
}

// DataSources points at the CSV files backing a run.
type DataSources struct {
	Historic  string `yaml:"historic" json:"historic"`
	Forward   string `yaml:"forward" json:"forward"`
	Mortality string `yaml:"mortality" json:"mortality"`
}

// AnnuityConfig is one annuity as configured by the user.
type AnnuityConfig struct {
	Name              string         `yaml:"name" json:"name"`
	PercentWithdrawal float64        `yaml:"percent_withdrawal" json:"percent_withdrawal"`
	Price             float64        `yaml:"price" json:"price"`
	Option            IndexationMode `yaml:"option" json:"option"`
	Increase          float64        `yaml:"increase" json:"increase"`
	TaxRate           float64        `yaml:"tax_rate" json:"tax_rate"`
	StartYear         int            `yaml:"start_year" json:"start_year"`
}

// DefaultAnnuityConfig is the annuity an entry describes when it omits fields.
func DefaultAnnuityConfig() AnnuityConfig {
	return AnnuityConfig{Option: IndexFixed, Increase: 3, StartYear: 1}
}

// UnmarshalYAML decodes an annuity entry on top of DefaultAnnuityConfig.
func (a *AnnuityConfig) UnmarshalYAML(value *yaml.Node) error {
	type alias AnnuityConfig
	aux := alias(DefaultAnnuityConfig())
	if err := value.Decode(&aux); err != nil {
		return err
	}
	*a = AnnuityConfig(aux)
	return nil
}

// UnmarshalJSON decodes an annuity entry on top of DefaultAnnuityConfig.
func (a *AnnuityConfig) UnmarshalJSON(data []byte) error {
	type alias AnnuityConfig
	aux := alias(DefaultAnnuityConfig())
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = AnnuityConfig(aux)
	return nil
}

// Flag is a boolean that also accepts the "1"/"0" strings older request payloads use.
type Flag bool

func parseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off", "", "null":
		return false, nil
	}
	return false, fmt.Errorf("invalid flag value %q", s)
}

// UnmarshalYAML accepts booleans, 0/1 and their string forms.
func (f *Flag) UnmarshalYAML(value *yaml.Node) error {
	v, err := parseFlag(value.Value)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// UnmarshalJSON accepts booleans, 0/1 and their string forms.
func (f *Flag) UnmarshalJSON(data []byte) error {
	v, err := parseFlag(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Mix returns the configured asset weights normalized to fractions.
func (c *Configuration) Mix() AssetMix {
	sum := c.AssetMixEquity + c.AssetMixBond + c.AssetMixIndexBond
	if sum <= 0 {
		return AssetMix{}
	}
	return AssetMix{
		Equity:    c.AssetMixEquity / sum,
		Bond:      c.AssetMixBond / sum,
		IndexBond: c.AssetMixIndexBond / sum,
	}
}

// GenerateAssumptions lists the headline assumptions of a configuration for reports.
func (c *Configuration) GenerateAssumptions() []string {
	var b strings.Builder
	fmt.Fprintf(&b, "Asset mix: %.0f%% equity / %.0f%% bonds / %.0f%% index-linked bonds",
		c.AssetMixEquity, c.AssetMixBond, c.AssetMixIndexBond)
	out := []string{
		b.String(),
		fmt.Sprintf("Data: %s %s, %d-%d, direction %s", c.CurrencySet, c.GeographicSet, c.DataStartYear, c.DataEndYear, c.DataDirection),
		fmt.Sprintf("Withdrawal policy: %s, base %.0f, increase %.2f%% per year", c.DynamicOption, c.WithdrawalAmount, c.AnnualWithdrawalInc),
		fmt.Sprintf("Taxes: equity %.1f%%, bonds %.1f%%, draws %.1f%%; fees %.0fbp", c.EquityTax, c.BondTax, c.DrawTax, c.Fees),
		fmt.Sprintf("Horizon: %d years from age %d", c.Years, c.StartSimulationAge),
	}
	if c.CircularSimulation {
		out = append(out, "Circular bootstrap: history wrapped to extend the number of cycles")
	}
	for _, a := range c.Annuities {
		if a.PercentWithdrawal > 0 {
			out = append(out, fmt.Sprintf("Annuity %s: %.0f%% of withdrawal from year %d (%s)", a.Name, a.PercentWithdrawal, a.StartYear, a.Option))
		}
	}
	return out
}
