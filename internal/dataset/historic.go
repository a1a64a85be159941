package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// ErrYearOutOfRange is returned when a requested start or end year is not in the data.
var ErrYearOutOfRange = errors.New("year out of range")

// Historic holds every column of the historic dataset. Index levels are nominal and
// yields are in percent.
type Historic struct {
	Years        []int     `json:"year"`
	GlobalEquity []float64 `json:"globaleq"`
	USEquity     []float64 `json:"useq"`
	Gilt10       []float64 `json:"tengilt"`
	UKCPI        []float64 `json:"ukcpi"`
	GBPUSD       []float64 `json:"gbpusd"`
	Treasury10   []float64 `json:"tentsy"`
	USCPI        []float64 `json:"uscpi"`
	USDUSD       []float64 `json:"usdusd"`
}

var historicColumns = []string{"Year", "GLOBALEQ", "USEQ", "10GILT", "UKCPI", "GBPUSD", "10TSY", "USCPI", "USDUSD"}

// LoadHistoric reads the historic dataset from a CSV file.
func LoadHistoric(path string) (*Historic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()
	h, err := ReadHistoric(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load historic data from %s: %w", path, err)
	}
	return h, nil
}

// ReadHistoric parses the historic dataset. Every row must carry every column.
func ReadHistoric(r io.Reader) (*Historic, error) {
	t, err := readTable(r, historicColumns)
	if err != nil {
		return nil, err
	}
	years, err := t.ints("Year")
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(years); i++ {
		if years[i] <= years[i-1] {
			return nil, fmt.Errorf("years must be strictly increasing: %d follows %d", years[i], years[i-1])
		}
	}
	h := &Historic{Years: years}
	cols := []*[]float64{&h.GlobalEquity, &h.USEquity, &h.Gilt10, &h.UKCPI, &h.GBPUSD, &h.Treasury10, &h.USCPI, &h.USDUSD}
	for i, dst := range cols {
		if *dst, err = t.floats(historicColumns[i+1]); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Selection names the historic columns used for one currency and geography.
type Selection struct {
	Equity    []float64
	Bond      []float64
	IndexBond []float64
	CPI       []float64
	FX        []float64
}

// Select picks the columns for a currency and geography pair. Sterling investors with a
// global equity allocation use UK gilts and CPI; dollar investors with domestic equity use
// US data throughout; every other pair pairs global equity with US bonds and inflation.
// No index-linked history exists, so the conventional bond yield stands in for it.
func (h *Historic) Select(currency, geography string) Selection {
	switch {
	case strings.EqualFold(currency, "GBP") && strings.EqualFold(geography, "GLOBAL"):
		return Selection{h.GlobalEquity, h.Gilt10, h.Gilt10, h.UKCPI, h.GBPUSD}
	case strings.EqualFold(currency, "USD") && strings.EqualFold(geography, "DOMESTIC"):
		return Selection{h.USEquity, h.Treasury10, h.Treasury10, h.USCPI, h.USDUSD}
	default:
		return Selection{h.GlobalEquity, h.Treasury10, h.Treasury10, h.USCPI, h.USDUSD}
	}
}

// Range returns the inclusive row indices of the start and end years.
func (h *Historic) Range(start, end int) (int, int, error) {
	from, to := -1, -1
	for i, y := range h.Years {
		if y == start {
			from = i
		}
		if y == end {
			to = i
		}
	}
	if from < 0 {
		return 0, 0, fmt.Errorf("%w: start year %d", ErrYearOutOfRange, start)
	}
	if to < 0 {
		return 0, 0, fmt.Errorf("%w: end year %d", ErrYearOutOfRange, end)
	}
	if to <= from {
		return 0, 0, fmt.Errorf("%w: end year %d is not after start year %d", ErrYearOutOfRange, end, start)
	}
	return from, to, nil
}

// Slice returns the selected columns for start..end inclusive. Forward curves are left
// empty.
func (h *Historic) Slice(start, end int, currency, geography string) (domain.RawSeries, error) {
	from, to, err := h.Range(start, end)
	if err != nil {
		return domain.RawSeries{}, err
	}
	sel := h.Select(currency, geography)
	cut := func(s []float64) []float64 {
		return append([]float64(nil), s[from:to+1]...)
	}
	return domain.RawSeries{
		Years:     append([]int(nil), h.Years[from:to+1]...),
		Equity:    cut(sel.Equity),
		Bond:      cut(sel.Bond),
		IndexBond: cut(sel.IndexBond),
		CPI:       cut(sel.CPI),
		FX:        cut(sel.FX),
	}, nil
}
