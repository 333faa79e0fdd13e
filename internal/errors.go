package internal

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	ErrTransport      = errors.New("upstream transport failure")
	ErrRejected       = errors.New("upstream rejected request")
	ErrUpstreamStatus = errors.New("upstream returned an error status")
	ErrSchema         = errors.New("unexpected upstream payload")
	ErrNoFuelPrice    = errors.New("no price for requested fuel type")

	ErrDataSourceUnavailable = errors.New("fuel price data temporarily unavailable")
)

// HTTPStatusError is returned when the remote server responds with a non-2xx status.
type HTTPStatusError struct {
	URL        string
	Status     string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status response from %s: %s", e.URL, e.Status)
}

type FailureKind string

const (
	FailureNone      FailureKind = "none"
	FailureTransport FailureKind = "transport"
	FailureRejected  FailureKind = "rejected"
	FailureStatus    FailureKind = "status"
	FailureSchema    FailureKind = "schema"
	FailureNoPrice   FailureKind = "no_price"
	FailureUnknown   FailureKind = "unknown"
)

// Classify reduces an upstream error to the kind of failure it represents, so that
// "nothing found" can be told apart from "could not ask".
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrRejected):
		return FailureRejected
	case errors.Is(err, ErrUpstreamStatus):
		return FailureStatus
	case errors.Is(err, ErrSchema):
		return FailureSchema
	case errors.Is(err, ErrNoFuelPrice):
		return FailureNoPrice
	case errors.Is(err, ErrTransport):
		return FailureTransport
	default:
		return FailureUnknown
	}
}
