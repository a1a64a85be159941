package dataset

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rpgo/swr-simulator/pkg/dateutil"
)

// Forward holds the forward-rate curves, in percent, and the date they were taken.
type Forward struct {
	GBPIndexBond []float64 `json:"gbp_index_bond_forward"`
	GBPBond      []float64 `json:"gbp_bond_forward"`
	USDIndexBond []float64 `json:"usd_index_bond_forward"`
	USDBond      []float64 `json:"usd_bond_forward"`
	UpdateDate   time.Time `json:"update_date"`
}

var forwardColumns = []string{
	"GBP_index_bond_forward", "GBP_bond_forward",
	"USD_index_bond_forward", "USD_bond_forward",
	"update_date",
}

// LoadForward reads the forward dataset from a CSV file.
func LoadForward(path string) (*Forward, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()
	fw, err := ReadForward(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load forward data from %s: %w", path, err)
	}
	return fw, nil
}

// ReadForward parses the forward dataset. The update date is a spreadsheet serial number
// on the first row.
func ReadForward(r io.Reader) (*Forward, error) {
	t, err := readTable(r, forwardColumns)
	if err != nil {
		return nil, err
	}
	fw := &Forward{}
	cols := []*[]float64{&fw.GBPIndexBond, &fw.GBPBond, &fw.USDIndexBond, &fw.USDBond}
	for i, dst := range cols {
		if *dst, err = t.leadingFloats(forwardColumns[i]); err != nil {
			return nil, err
		}
	}
	serial, err := parseNumber(t.cell(0, "update_date"))
	if err != nil {
		return nil, fmt.Errorf("invalid update_date: %w", err)
	}
	if fw.UpdateDate, err = dateutil.ExcelSerialToDate(serial); err != nil {
		return nil, fmt.Errorf("invalid update_date: %w", err)
	}
	return fw, nil
}

// Curves returns the bond and index-bond forward curves for a currency. Sterling uses the
// GBP curves and everything else the USD ones.
func (f *Forward) Curves(currency string) (bond, indexBond []float64) {
	if strings.EqualFold(currency, "GBP") {
		return f.GBPBond, f.GBPIndexBond
	}
	return f.USDBond, f.USDIndexBond
}

// UpdateSerial is the update date as a spreadsheet serial number.
func (f *Forward) UpdateSerial() float64 {
	return dateutil.DateToExcelSerial(f.UpdateDate)
}
