package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rpgo/swr-simulator/internal/calculation"
)

// print_vpw prints the variable percentage withdrawal rates for each equity allocation,
// one row per age.
func main() {
	startAge := 50
	if len(os.Args) > 1 {
		a, err := strconv.Atoi(os.Args[1])
		if err != nil {
			fmt.Println("usage: print_vpw [start-age]")
			return
		}
		startAge = a
	}
	equities := []float64{0.30, 0.40, 0.50, 0.60, 0.70}

	fmt.Print("Age")
	for _, e := range equities {
		fmt.Printf(",Equity%d", calculation.VPWBucket(e))
	}
	fmt.Println()
	for b := 0; startAge+b <= 100; b++ {
		fmt.Printf("%d", startAge+b)
		for _, e := range equities {
			fmt.Printf(",%.2f%%", calculation.VPWRate(e, calculation.VPWRow(startAge, b))*100)
		}
		fmt.Println()
	}
}
