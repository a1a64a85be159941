package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	Runs            *prometheus.CounterVec
	RunDuration     *prometheus.HistogramVec
	CyclesSimulated prometheus.Counter
	InFlight        prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "swrsim_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swrsim_runs_total",
				Help: "Engine runs by kind and result",
			},
			[]string{"kind", "result"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "swrsim_run_duration_seconds",
				Help:    "Duration of engine runs in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"kind"},
		),
		CyclesSimulated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "swrsim_cycles_simulated_total",
				Help: "Back-test cycles reported by simulation runs",
			},
		),
		InFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "swrsim_runs_in_flight",
				Help: "Engine runs currently executing",
			},
		),
		gatherer: reg,
	}
	reg.MustRegister(m.RequestDuration, m.Runs, m.RunDuration, m.CyclesSimulated, m.InFlight)
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// observeRun records one engine run.
func (m *Metrics) observeRun(kind string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Runs.WithLabelValues(kind, result).Inc()
	m.RunDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
