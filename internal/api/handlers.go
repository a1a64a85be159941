package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rpgo/swr-simulator/internal/calculation"
	"github.com/rpgo/swr-simulator/internal/dataset"
	"github.com/rpgo/swr-simulator/internal/domain"
	"github.com/rpgo/swr-simulator/internal/output"
	"github.com/rpgo/swr-simulator/internal/scenario"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// healthResponse reports readiness and the data the server holds.
type healthResponse struct {
	Status         string    `json:"status"`
	HistoricFrom   int       `json:"historic_from"`
	HistoricTo     int       `json:"historic_to"`
	ForwardUpdated time.Time `json:"forward_update_date"`
}

// badRequestError marks failures caused by the request body.
type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", ForwardUpdated: s.store.UpdateDate()}
	if years := s.store.Historic.Years; len(years) > 0 {
		resp.HistoricFrom, resp.HistoricTo = years[0], years[len(years)-1]
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) simulationData(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.store.Snapshot())
}

func (s *Server) simulation(w http.ResponseWriter, r *http.Request) {
	s.runScenario(w, r, "simulation", s.engine.RunScenario)
}

func (s *Server) swr(w http.ResponseWriter, r *http.Request) {
	s.runScenario(w, r, "swr", s.engine.SearchSWR)
}

func (s *Server) optimisation(w http.ResponseWriter, r *http.Request) {
	s.runScenario(w, r, "optimisation", s.engine.Optimise)
}

type runFunc func(ctx context.Context, sc calculation.Scenario) (*domain.Report, error)

// runScenario decodes the configuration in the body, runs it against the server's data and
// writes the report. A format query parameter selects any registered output format.
func (s *Server) runScenario(w http.ResponseWriter, r *http.Request, kind string, run runFunc) {
	format := r.URL.Query().Get("format")
	var formatter output.Formatter
	if format != "" {
		f, err := output.Lookup(format)
		if err != nil {
			s.writeError(w, r, badRequestError{err})
			return
		}
		formatter = f
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, badRequestError{fmt.Errorf("failed to read request body: %w", err)})
		return
	}
	cfg, err := s.parser.ParseJSON(body)
	if err != nil {
		s.writeError(w, r, badRequestError{err})
		return
	}
	sc, err := scenario.Build(cfg, s.store)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	start := time.Now()
	s.metrics.InFlight.Inc()
	report, err := run(r.Context(), sc)
	s.metrics.InFlight.Dec()
	s.metrics.observeRun(kind, start, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if report.Simulation != nil {
		s.metrics.CyclesSimulated.Add(float64(len(report.Simulation.Cycles)))
	}

	if formatter == nil || formatter.Name() == "json" {
		s.writeJSON(w, r, http.StatusOK, report)
		return
	}
	data, err := formatter.Format(report)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(formatter.Extension()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func contentType(ext string) string {
	switch ext {
	case "csv":
		return "text/csv; charset=utf-8"
	case "html":
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	s.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "not found", RequestID: requestID(r.Context())})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	s.writeJSON(w, r, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed", RequestID: requestID(r.Context())})
}

// statusFor maps an error to the HTTP status it should produce.
func statusFor(err error) int {
	var bad badRequestError
	var history *calculation.InsufficientHistoryError
	switch {
	case errors.As(err, &bad), errors.Is(err, dataset.ErrYearOutOfRange):
		return http.StatusBadRequest
	case errors.As(err, &history),
		errors.Is(err, calculation.ErrNoCycles),
		errors.Is(err, calculation.ErrMisalignedSeries),
		errors.Is(err, calculation.ErrInvalidSeriesValue),
		errors.Is(err, calculation.ErrForwardCurveTooShort),
		errors.Is(err, calculation.ErrTooManyAnnuities),
		errors.Is(err, calculation.ErrUnknownPolicy):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	id := requestID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Zerolog().Error().Err(err).Str("request_id", id).Msg("request failed")
	} else {
		s.logger.Zerolog().Debug().Err(err).Str("request_id", id).Msg("request rejected")
	}
	s.writeJSON(w, r, status, errorResponse{Error: err.Error(), RequestID: id})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Zerolog().Warn().Err(err).Str("request_id", requestID(r.Context())).Msg("failed to encode response")
	}
}
