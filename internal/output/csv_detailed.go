package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// CSVStreamsExporter writes the withdrawal streams transposed: one row per simulation year
// and one column per cycle, labelled by the cycle's first calendar year.
type CSVStreamsExporter struct{}

func (c CSVStreamsExporter) Name() string      { return "streams-csv" }
func (c CSVStreamsExporter) Extension() string { return "csv" }

func (c CSVStreamsExporter) Format(r *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	var streams [][]float64
	if r.Simulation != nil {
		streams = r.Simulation.WithdrawalStreams()
	}
	header := make([]string, 0, len(streams)+1)
	header = append(header, "Year")
	for i := range streams {
		header = append(header, intToString(cycleYear(r, i)))
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	years := 0
	if len(streams) > 0 {
		years = len(streams[0])
	}
	for y := 0; y < years; y++ {
		row := make([]string, 0, len(streams)+1)
		row = append(row, intToString(y+1))
		for _, s := range streams {
			row = append(row, money(s[y]))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
