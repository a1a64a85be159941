package calculation

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCycles is returned when the return series is too short for a single cycle.
	ErrNoCycles = errors.New("return series too short for the requested horizon")
	// ErrMisalignedSeries is returned when series that must share an index differ in length.
	ErrMisalignedSeries = errors.New("return series are not aligned")
	// ErrInvalidSeriesValue is returned for a non-positive price, index or FX level.
	ErrInvalidSeriesValue = errors.New("invalid series value")
	// ErrForwardCurveTooShort is returned when forward mode needs more curve points than supplied.
	ErrForwardCurveTooShort = errors.New("forward curve shorter than horizon")
	// ErrTooManyAnnuities is returned when more annuities are configured than slots exist.
	ErrTooManyAnnuities = errors.New("too many annuities")
	// ErrUnknownPolicy is returned for an unrecognised withdrawal policy.
	ErrUnknownPolicy = errors.New("unknown withdrawal policy")
)

// InsufficientHistoryError reports a raw series with too few points to form a single
// year-over-year return.
type InsufficientHistoryError struct {
	Series string
	Points int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history for %s: need at least 2 data points, got %d", e.Series, e.Points)
}
