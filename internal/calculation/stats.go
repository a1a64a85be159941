package calculation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// FanPercentiles are the curves reported in fan charts.
var FanPercentiles = []float64{0, 10, 25, 50, 75, 90, 100}

// Percentile returns the p-th percentile (0..100) of xs, interpolating linearly between
// closest ranks. xs need not be sorted.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return sortedPercentile(sorted, p)
}

func sortedPercentile(sorted []float64, p float64) float64 {
	pos := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}

// Deciles returns the 0th..90th percentiles in steps of 10 followed by the maximum.
func Deciles(xs []float64) []float64 {
	out := make([]float64, 0, 11)
	if len(xs) == 0 {
		return out
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	for p := 0; p < 100; p += 10 {
		out = append(out, sortedPercentile(sorted, float64(p)))
	}
	return append(out, floats.Max(sorted))
}

// FanChart computes percentile curves across paths, one point per year. Paths shorter than
// the first are ignored at the missing years.
func FanChart(paths [][]float64, percentiles []float64) domain.FanChart {
	fan := domain.FanChart{
		Percentiles: append([]float64(nil), percentiles...),
		Series:      make([][]float64, len(percentiles)),
	}
	if len(paths) == 0 {
		return fan
	}
	width := len(paths[0])
	column := make([]float64, 0, len(paths))
	for i := range fan.Series {
		fan.Series[i] = make([]float64, width)
	}
	for year := 0; year < width; year++ {
		column = column[:0]
		for _, p := range paths {
			if year < len(p) {
				column = append(column, p[year])
			}
		}
		sort.Float64s(column)
		for i, pct := range percentiles {
			fan.Series[i][year] = sortedPercentile(column, pct)
		}
	}
	return fan
}

// HistogramBinWidth picks the withdrawal histogram bin width from the data range.
func HistogramBinWidth(spread float64) float64 {
	switch {
	case spread > 100000:
		return 10000
	case spread > 50000:
		return 5000
	case spread > 20000:
		return 2000
	default:
		return 1000
	}
}

// WithdrawalHistogram bins every observation into fixed-width bins spanning the data and
// reports each bin's share of the observations. The last bin is closed on the right.
func WithdrawalHistogram(obs []float64) domain.Histogram {
	if len(obs) == 0 {
		return domain.Histogram{}
	}
	lo, hi := floats.Min(obs), floats.Max(obs)
	width := HistogramBinWidth(hi - lo)
	start := math.Floor(lo/width) * width
	end := math.Ceil(hi/width)*width + width

	var edges []float64
	for e := start; e <= end; e += width {
		edges = append(edges, e)
	}
	counts := make([]float64, len(edges)-1)
	for _, x := range obs {
		i := int((x - start) / width)
		if i >= len(counts) {
			i = len(counts) - 1
		}
		counts[i]++
	}
	n := float64(len(obs))
	for i := range counts {
		counts[i] /= n
	}
	return domain.Histogram{BinWidth: width, Edges: edges, Frequencies: counts}
}

// Mean is the arithmetic mean, 0 for no data.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}
