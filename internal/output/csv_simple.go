package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per cycle).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string      { return "csv" }
func (c CSVSummarizer) Extension() string { return "csv" }

func (c CSVSummarizer) Format(r *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Cycle", "StartYear", "Failed", "EndValue", "AvgWithdrawal", "AvgMortalityAdjusted", "MortalityDiscountedTotal", "MaxSWR"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	var cycles []domain.CycleOutcome
	if r.Simulation != nil {
		cycles = r.Simulation.Cycles
	}
	var byCycle []float64
	if r.SWR != nil {
		byCycle = r.SWR.ByCycle
	}
	for i := 0; i < max(len(cycles), len(byCycle)); i++ {
		row := []string{intToString(i), intToString(cycleYear(r, i)), "", "", "", "", "", ""}
		if i < len(cycles) {
			c := cycles[i]
			row[2] = boolToString(c.Failed)
			row[3] = money(c.EndValue)
			row[4] = money(c.AvgWithdrawal)
			row[5] = money(c.AvgMortalityAdjusted)
			row[6] = money(c.MortalityDiscountedTotal)
		}
		if i < len(byCycle) {
			row[7] = strconv.FormatFloat(byCycle[i], 'f', 1, 64)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
