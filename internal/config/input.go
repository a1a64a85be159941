package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// Defaults for the draw-adjust schedule: 50 years at 100%.
const defaultAdjustYears = 50

// InputParser handles parsing of scenario configuration files and request bodies
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// DefaultConfiguration returns a configuration with every field at its default. Decoding on
// top of it leaves omitted keys at these values.
func DefaultConfiguration() *domain.Configuration {
	adjust := make([]float64, defaultAdjustYears)
	for i := range adjust {
		adjust[i] = 100
	}
	return &domain.Configuration{
		Name: "default",
		Data: domain.DataSources{
			Historic:  "testdata/historic_dataset.csv",
			Forward:   "testdata/forward_dataset.csv",
			Mortality: "testdata/mortality_risk_table.csv",
		},
		DataStartYear:      1870,
		DataEndYear:        2023,
		CurrencySet:        "USD",
		GeographicSet:      "DOMESTIC",
		DataDirection:      domain.DirectionForward,
		CircularSimulation: true,

		BondCoupon:      3.0,
		IndexBondCoupon: 0.5,

		AssetMixEquity:    60,
		AssetMixBond:      0,
		AssetMixIndexBond: 40,

		StartSum:                1_000_000,
		DynamicOption:           domain.PolicyConstant,
		WithdrawalAmount:        40_000,
		BonusTarget:             10_000,
		TargetWithdrawalPercent: 6.0,
		MinWithdrawalFloor:      30_000,
		FlexRealDecrease:        1,
		FlexRealIncrease:        1,
		YearsNoFlex:             1,
		SpringBack:              true,
		YaleWeight:              70,
		VanguardCeiling:         5,
		VanguardFloor:           2.5,
		OtherIncome:             true,
		AnnualAdjust:            adjust,

		StartSimulationAge: 50,
		Years:              30,
	}
}

// LoadFromFile loads a scenario from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseYAML(data)
}

// ParseYAML decodes a YAML (or JSON) document on top of the defaults and validates it.
func (ip *InputParser) ParseYAML(data []byte) (*domain.Configuration, error) {
	config := DefaultConfiguration()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return ip.finish(config)
}

// ParseJSON decodes a JSON request body on top of the defaults and validates it. Unknown
// fields are rejected.
func (ip *InputParser) ParseJSON(data []byte) (*domain.Configuration, error) {
	config := DefaultConfiguration()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return ip.finish(config)
}

func (ip *InputParser) finish(config *domain.Configuration) (*domain.Configuration, error) {
	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config.DataStartYear >= config.DataEndYear {
		return fmt.Errorf("data start year %d must be before end year %d", config.DataStartYear, config.DataEndYear)
	}
	switch config.DataDirection {
	case domain.DirectionBack, domain.DirectionForward:
	default:
		return fmt.Errorf("data direction must be 'back' or 'forward', got %q", config.DataDirection)
	}
	if config.Years < 1 {
		return fmt.Errorf("years must be at least 1")
	}
	if config.Years > config.DataEndYear-config.DataStartYear {
		return fmt.Errorf("years (%d) exceeds the %d years of data selected", config.Years, config.DataEndYear-config.DataStartYear)
	}
	if config.YearsToWithdrawals < 0 || config.YearsToWithdrawals >= config.Years {
		return fmt.Errorf("years to withdrawals must be between 0 and %d", config.Years-1)
	}
	if config.StartSum <= 0 {
		return fmt.Errorf("start sum must be positive")
	}
	if config.StartSimulationAge < 0 || config.StartSimulationAge > 120 {
		return fmt.Errorf("start simulation age must be between 0 and 120")
	}

	if err := validateRates(config); err != nil {
		return err
	}
	if err := validatePolicy(config); err != nil {
		return fmt.Errorf("withdrawal policy validation failed: %w", err)
	}

	if len(config.Annuities) > domain.MaxAnnuities {
		return fmt.Errorf("at most %d annuities may be configured, got %d", domain.MaxAnnuities, len(config.Annuities))
	}
	for i, a := range config.Annuities {
		if err := validateAnnuity(a, config.Years); err != nil {
			return fmt.Errorf("annuity %d validation failed: %w", i+1, err)
		}
	}
	return nil
}

func validateRates(config *domain.Configuration) error {
	for name, v := range map[string]float64{
		"equity tax": config.EquityTax,
		"bond tax":   config.BondTax,
		"draw tax":   config.DrawTax,
	} {
		if v < 0 || v >= 100 {
			return fmt.Errorf("%s must be between 0 and 100%%, got %g", name, v)
		}
	}
	if config.Fees < 0 || config.Fees >= 10000 {
		return fmt.Errorf("fees must be between 0 and 10000 basis points")
	}
	mix := []float64{config.AssetMixEquity, config.AssetMixBond, config.AssetMixIndexBond}
	var sum float64
	for _, w := range mix {
		if w < 0 {
			return fmt.Errorf("asset mix weights cannot be negative")
		}
		sum += w
	}
	if sum <= 0 {
		return fmt.Errorf("asset mix weights must sum to more than zero")
	}
	for _, adj := range config.AnnualAdjust {
		if adj < 0 {
			return fmt.Errorf("annual adjustments cannot be negative")
		}
	}
	return nil
}

func validatePolicy(config *domain.Configuration) error {
	known := false
	for _, k := range domain.PolicyKinds() {
		if config.DynamicOption == k {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("unknown dynamic option %q", config.DynamicOption)
	}
	if config.WithdrawalAmount < 0 || config.BonusTarget < 0 || config.MinWithdrawalFloor < 0 {
		return fmt.Errorf("withdrawal amounts cannot be negative")
	}
	if config.TargetWithdrawalPercent < 0 || config.TargetWithdrawalPercent > 100 {
		return fmt.Errorf("target withdrawal percent must be between 0 and 100")
	}
	if config.FlexRealDecrease < 0 || config.FlexRealIncrease < 0 {
		return fmt.Errorf("flex steps cannot be negative")
	}
	if config.YaleWeight < 0 || config.YaleWeight > 100 {
		return fmt.Errorf("yale weight must be between 0 and 100")
	}
	if config.VanguardCeiling < 0 || config.VanguardFloor < 0 || config.VanguardFloor > 100 {
		return fmt.Errorf("vanguard ceiling and floor must be non-negative and the floor at most 100")
	}
	return nil
}

func validateAnnuity(a domain.AnnuityConfig, years int) error {
	if a.PercentWithdrawal < 0 {
		return fmt.Errorf("percent of withdrawal cannot be negative")
	}
	if a.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if a.TaxRate < 0 || a.TaxRate >= 100 {
		return fmt.Errorf("tax rate must be between 0 and 100%%")
	}
	if a.StartYear < 1 || a.StartYear > years {
		return fmt.Errorf("start year must be between 1 and %d", years)
	}
	switch a.Option {
	case domain.IndexFixed, domain.IndexEscalating, domain.IndexReal, domain.IndexNominal:
	default:
		return fmt.Errorf("unknown indexation option %q", a.Option)
	}
	return nil
}

// CreateExampleConfiguration creates an example scenario that exercises a flexed draw, a
// deferred annuity and a short accumulation phase.
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	config := DefaultConfiguration()
	config.Name = "Flexible drawdown with deferred annuity"
	config.CurrencySet = "GBP"
	config.GeographicSet = "GLOBAL"
	config.DataStartYear = 1900
	config.DynamicOption = domain.PolicyConstantFlex
	config.WithdrawalAmount = 35_000
	config.AnnualWithdrawalInc = 0.5
	config.DrawTax = 20
	config.Fees = 25
	config.YearsToWithdrawals = 2
	config.Contribution = 20_000
	config.ContributionIncrease = 2
	config.StartSimulationAge = 58
	config.Years = 35
	config.Annuities = []domain.AnnuityConfig{
		{Name: "personal", PercentWithdrawal: 30, Price: 5.5, Option: domain.IndexReal, StartYear: 10},
		{Name: "state pension", PercentWithdrawal: 25, Option: domain.IndexNominal, Increase: 2.5, StartYear: 10},
	}
	return config
}
