// Package scenario resolves a user configuration against the loaded datasets into the
// engine's Scenario.
package scenario

import (
	"fmt"

	"github.com/rpgo/swr-simulator/internal/calculation"
	"github.com/rpgo/swr-simulator/internal/config"
	"github.com/rpgo/swr-simulator/internal/dataset"
	"github.com/rpgo/swr-simulator/internal/domain"
)

// Build selects the configured slice of data and converts the configuration's units.
func Build(c *domain.Configuration, store *dataset.Store) (calculation.Scenario, error) {
	raw, err := store.Raw(c)
	if err != nil {
		return calculation.Scenario{}, err
	}
	in := config.ToSimulationInput(c)
	in.Mortality = store.Mortality
	return calculation.Scenario{
		Name:           c.Name,
		Currency:       c.CurrencySet,
		Raw:            raw,
		ReturnParams:   config.ToReturnParams(c),
		Input:          in,
		ForwardUpdated: store.UpdateDate(),
		Assumptions:    c.GenerateAssumptions(),
	}, nil
}

// Load reads the datasets a configuration names and builds its scenario.
func Load(c *domain.Configuration) (calculation.Scenario, *dataset.Store, error) {
	store, err := dataset.Load(c.Data)
	if err != nil {
		return calculation.Scenario{}, nil, fmt.Errorf("failed to load datasets: %w", err)
	}
	sc, err := Build(c, store)
	if err != nil {
		return calculation.Scenario{}, nil, err
	}
	return sc, store, nil
}
