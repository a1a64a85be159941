package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpgo/swr-simulator/internal/domain"
)

func buildTestReport() *domain.Report {
	cycle := func(start int, failed bool, end float64, draws ...float64) domain.CycleOutcome {
		return domain.CycleOutcome{
			Start:         start,
			Failed:        failed,
			Values:        []float64{1000000, end},
			Withdrawals:   draws,
			EndValue:      end,
			AvgWithdrawal: draws[0],
		}
	}
	return &domain.Report{
		Name:            "Test",
		Currency:        "GBP",
		GeneratedAt:     time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
		ForwardUpdated:  time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		SimulationYears: []int{1901, 1902, 1903},
		Simulation: &domain.SimulationResult{
			FailureRate:     1.0 / 3,
			EndValueDeciles: []float64{0, 1, 2, 3, 4, 500000, 6, 7, 8, 9, 10},
			Cycles: []domain.CycleOutcome{
				cycle(0, false, 1200000, 40000, 41000),
				cycle(1, true, 0, 40000, 20000),
				cycle(2, false, 900000, 40000, 40000),
			},
			ValueFan: domain.FanChart{
				Percentiles: []float64{0, 50, 100},
				Series:      [][]float64{{1000000, 0}, {1000000, 900000}, {1000000, 1200000}},
			},
			AvgWithdrawal: 40000,
			AvgEndValue:   700000,
		},
		SWR: &domain.SWRResult{
			ByCycle: []float64{4.5, 3.2, 5.1},
			ByYear:  []float64{3.2, 3.6},
			Safest:  3.2,
		},
		Optimisation: &domain.OptimisationResult{
			MinFailure: domain.MixResult{Equity: 40, Bond: 60, FailureRate: 0},
			MaxValue:   domain.MixResult{Equity: 60, Bond: 40, FailureRate: 0, AvgEndValue: 1500000},
		},
		Assumptions: []string{"Asset mix: 60% equity"},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(buildTestReport())
	if s.Cycles != 3 {
		t.Fatalf("expected 3 cycles, got %d", s.Cycles)
	}
	if len(s.FailedYears) != 1 || s.FailedYears[0] != 1902 {
		t.Fatalf("expected failure in 1902, got %v", s.FailedYears)
	}
	if s.MedianEndValue != 500000 {
		t.Fatalf("expected median from the fifth decile, got %v", s.MedianEndValue)
	}
	if s.WorstCycleYear != 1902 || s.BestCycleYear != 1903 || s.BestSWR != 5.1 {
		t.Fatalf("unexpected SWR extremes: %+v", s)
	}
}

func TestSummarize_EmptyReport(t *testing.T) {
	s := Summarize(&domain.Report{Name: "empty"})
	if s.Cycles != 0 || s.SafestSWR != 0 || len(s.FailedYears) != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{
		"SAFE WITHDRAWAL RATE BACK-TEST: TEST",
		"Failure rate:            33.3%",
		"Failed cycles starting:  1902",
		"Safest SWR:              3.2% (cycle starting 1902)",
		"Median end value:        £500,000",
		"40/60/0 equity/bond/index bond",
		"Forward curves as of 31 December 2023",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in output:\n%s", want, content)
		}
	}
}

func TestCSVSummarizer(t *testing.T) {
	out, err := CSVSummarizer{}.Format(buildTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (header+3 rows), got %d", len(lines))
	}
	if lines[2] != "1,1902,true,0.00,40000.00,0.00,0.00,3.2" {
		t.Fatalf("unexpected row: %s", lines[2])
	}
}

func TestCSVStreamsExporter(t *testing.T) {
	out, err := CSVStreamsExporter{}.Format(buildTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	want := []string{
		"Year,1901,1902,1903",
		"1,40000.00,40000.00,40000.00",
		"2,41000.00,20000.00,40000.00",
	}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected streams:\n%s", out)
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"simulation", "swr", "optimisation", "simulation_years", "forward_update_date"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing key %q", key)
		}
	}
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"<h1>Test</h1>", `class="failed"`, "Safest rate 3.2%", "const reportData ="} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in HTML output", want)
		}
	}
}

func TestHTMLFormatter_SimulationOnly(t *testing.T) {
	r := buildTestReport()
	r.SWR, r.Optimisation, r.SimulationYears = nil, nil, nil
	if _, err := (HTMLFormatter{}).Format(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetFormatterByName(t *testing.T) {
	cases := map[string]string{
		"console":     "console",
		"TXT":         "console",
		" json ":      "json",
		"csv-streams": "streams-csv",
		"html-report": "html",
	}
	for in, want := range cases {
		f := GetFormatterByName(in)
		if f == nil || f.Name() != want {
			t.Fatalf("GetFormatterByName(%q) = %v, want %s", in, f, want)
		}
	}
	if GetFormatterByName("pdf") != nil {
		t.Fatalf("expected nil for unknown format")
	}
}

func TestWriteFormatted(t *testing.T) {
	dir := t.TempDir()
	name, err := WriteFormatted(JSONFormatter{}, buildTestReport(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Ext(name) != ".json" || filepath.Dir(name) != dir {
		t.Fatalf("unexpected file name %s", name)
	}
	if _, err := os.Stat(name); err != nil {
		t.Fatalf("file not written: %v", err)
	}
}
