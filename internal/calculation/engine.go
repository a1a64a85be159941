package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// Scenario is one fully resolved request: raw market data for the selected years plus the
// engine inputs. Input.Returns and Input.SafeCurve are filled in by the engine.
type Scenario struct {
	Name           string
	Currency       string
	Raw            domain.RawSeries
	ReturnParams   domain.ReturnParams
	Input          domain.SimulationInput
	ForwardUpdated time.Time
	Assumptions    []string
}

// CalculationEngine orchestrates return preparation, the SWR search, the cycle simulation
// and the asset-mix optimiser.
type CalculationEngine struct {
	Simulator *Simulator
	Logger    Logger
	now       func() time.Time
}

// NewCalculationEngine creates an engine with a no-op logger and default parallelism.
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Simulator: NewSimulator(NopLogger{}, 0),
		Logger:    NopLogger{},
		now:       time.Now,
	}
}

// SetLogger sets the logger for the engine and its simulator. If nil is provided, a no-op
// logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	ce.Logger = orNop(l)
	ce.Simulator.logger = ce.Logger
}

// SetWorkers bounds the number of goroutines used per fan-out.
func (ce *CalculationEngine) SetWorkers(n int) {
	ce.Simulator.workers = n
}

// prepare builds the return series and the report skeleton.
func (ce *CalculationEngine) prepare(sc Scenario) (domain.SimulationInput, *domain.Report, error) {
	returns, err := PrepareReturns(sc.Raw, sc.ReturnParams)
	if err != nil {
		return domain.SimulationInput{}, nil, fmt.Errorf("failed to prepare returns: %w", err)
	}
	in := sc.Input
	in.Returns = returns
	report := &domain.Report{
		Name:            sc.Name,
		Currency:        sc.Currency,
		GeneratedAt:     ce.now(),
		ForwardUpdated:  sc.ForwardUpdated,
		SimulationYears: CycleLabels(sc.Raw.Years, returns.Cycles(in.Horizon.Years), sc.ReturnParams.Circular),
		Assumptions:     sc.Assumptions,
	}
	return in, report, nil
}

// RunScenario searches the safe withdrawal curve and then simulates the scenario's policy
// against it.
func (ce *CalculationEngine) RunScenario(ctx context.Context, sc Scenario) (*domain.Report, error) {
	in, report, err := ce.prepare(sc)
	if err != nil {
		return nil, err
	}
	ce.Logger.Infof("running scenario %q: %d years, policy %s, %d cycles",
		sc.Name, in.Horizon.Years, in.Policy.Kind, in.Returns.Cycles(in.Horizon.Years))

	swr, err := ce.Simulator.SearchSWR(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("swr search failed: %w", err)
	}
	in.SafeCurve = swr.ByYear

	sim, err := ce.Simulator.Run(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}
	report.SWR = swr
	report.Simulation = sim
	ce.Logger.Infof("scenario %q: failure rate %.1f%%, safest SWR %.1f%%",
		sc.Name, sim.FailureRate*100, swr.Safest)
	return report, nil
}

// SearchSWR runs only the safe withdrawal rate searches.
func (ce *CalculationEngine) SearchSWR(ctx context.Context, sc Scenario) (*domain.Report, error) {
	in, report, err := ce.prepare(sc)
	if err != nil {
		return nil, err
	}
	swr, err := ce.Simulator.SearchSWR(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("swr search failed: %w", err)
	}
	report.SWR = swr
	return report, nil
}

// Optimise grid-searches asset mixes for the scenario.
func (ce *CalculationEngine) Optimise(ctx context.Context, sc Scenario) (*domain.Report, error) {
	in, report, err := ce.prepare(sc)
	if err != nil {
		return nil, err
	}
	opt, err := ce.Simulator.OptimiseMix(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("optimisation failed: %w", err)
	}
	report.Optimisation = opt
	ce.Logger.Infof("scenario %q: lowest failure %.1f%% at %.0f/%.0f/%.0f",
		sc.Name, opt.MinFailure.FailureRate*100, opt.MinFailure.Equity, opt.MinFailure.Bond, opt.MinFailure.IndexBond)
	return report, nil
}

// CycleLabels names each cycle by the first calendar year whose return it uses. Circular
// runs wrap back to the start of the data.
func CycleLabels(years []int, cycles int, circular bool) []int {
	n := len(years) - 1
	if n < 1 || cycles < 1 {
		return nil
	}
	labels := make([]int, cycles)
	for a := range labels {
		i := a
		if circular {
			i = a % n
		}
		if i >= n {
			i = n - 1
		}
		labels[a] = years[i+1]
	}
	return labels
}
