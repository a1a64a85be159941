package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/rpgo/swr-simulator/internal/calculation"
	"github.com/rpgo/swr-simulator/internal/config"
	"github.com/rpgo/swr-simulator/internal/scenario"
)

// print_cycle runs a scenario file and dumps one cycle year by year as CSV.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: print_cycle <scenario-file> [start-year]")
		return
	}
	p := config.NewInputParser()
	cfg, err := p.LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	sc, _, err := scenario.Load(cfg)
	if err != nil {
		panic(err)
	}
	report, err := calculation.NewCalculationEngine().RunScenario(context.Background(), sc)
	if err != nil {
		panic(err)
	}
	cycles := report.Simulation.Cycles
	if len(cycles) == 0 {
		fmt.Println("no cycles")
		return
	}

	idx := 0
	if len(os.Args) > 2 {
		year, err := strconv.Atoi(os.Args[2])
		if err != nil {
			panic(err)
		}
		idx = -1
		for i, y := range report.SimulationYears {
			if y == year {
				idx = i
				break
			}
		}
		if idx < 0 {
			fmt.Printf("no cycle starts in %d\n", year)
			return
		}
	}

	c := cycles[idx]
	fmt.Printf("# cycle %d starting %d, failed=%t, max SWR %.1f%%\n",
		idx, report.SimulationYears[idx], c.Failed, report.SWR.ByCycle[idx])
	fmt.Println("Year,Age,StartValue,PortfolioDraw,AnnuityIncome,Withdrawal,EndValue,SafeSWR")
	for b := range c.Withdrawals {
		fmt.Printf("%d,%d,%.0f,%.0f,%.0f,%.0f,%.0f,%.1f\n",
			b+1, cfg.StartSimulationAge+b, c.Values[b], c.PortfolioDraws[b], c.AnnuityIncome[b],
			c.Withdrawals[b], c.Values[b+1], report.SWR.ByYear[b])
	}
}
