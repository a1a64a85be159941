package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// table is a CSV file read into memory with its header indexed by column name.
type table struct {
	index map[string]int
	rows  [][]string
}

// readTable reads a headed CSV and checks the required columns are present. Extra columns
// are ignored.
func readTable(r io.Reader, required []string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty CSV: no header")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	t := &table{index: make(map[string]int, len(header))}
	for i, name := range header {
		t.index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range required {
		if _, ok := t.index[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}
		if blank(record) {
			continue
		}
		t.rows = append(t.rows, record)
	}
	if len(t.rows) == 0 {
		return nil, fmt.Errorf("no data rows")
	}
	return t, nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// cell returns the trimmed value of a column in row i, "" when the row is short.
func (t *table) cell(i int, column string) string {
	c := t.index[column]
	if c >= len(t.rows[i]) {
		return ""
	}
	return strings.TrimSpace(t.rows[i][c])
}

// parseNumber reads a finite decimal.
func parseNumber(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// floats parses a column that must be filled on every row.
func (t *table) floats(column string) ([]float64, error) {
	out := make([]float64, len(t.rows))
	for i := range t.rows {
		v, err := parseNumber(t.cell(i, column))
		if err != nil {
			return nil, fmt.Errorf("row %d, column %s: %w", i+2, column, err)
		}
		out[i] = v
	}
	return out, nil
}

// leadingFloats parses a column up to its first empty cell. Curves of different lengths
// share one file this way.
func (t *table) leadingFloats(column string) ([]float64, error) {
	var out []float64
	for i := range t.rows {
		s := t.cell(i, column)
		if s == "" {
			break
		}
		v, err := parseNumber(s)
		if err != nil {
			return nil, fmt.Errorf("row %d, column %s: %w", i+2, column, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (t *table) ints(column string) ([]int, error) {
	out := make([]int, len(t.rows))
	for i := range t.rows {
		v, err := strconv.Atoi(t.cell(i, column))
		if err != nil {
			return nil, fmt.Errorf("row %d, column %s: %w", i+2, column, err)
		}
		out[i] = v
	}
	return out, nil
}
