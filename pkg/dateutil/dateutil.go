package dateutil

import (
	"fmt"
	"math"
	"time"
)

// excelEpoch is day zero of the spreadsheet serial date system. Using 30 December 1899
// absorbs the phantom 29 February 1900 for every date after March 1900.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ExcelSerialToDate converts a spreadsheet serial day number to a UTC time. Fractional
// days carry the time of day.
func ExcelSerialToDate(serial float64) (time.Time, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 0 {
		return time.Time{}, fmt.Errorf("invalid serial date %v", serial)
	}
	days := math.Floor(serial)
	frac := serial - days
	t := excelEpoch.AddDate(0, 0, int(days))
	return t.Add(time.Duration(math.Round(frac * float64(24*time.Hour)))), nil
}

// DateToExcelSerial converts a time to its spreadsheet serial day number.
func DateToExcelSerial(t time.Time) float64 {
	return t.UTC().Sub(excelEpoch).Hours() / 24
}
