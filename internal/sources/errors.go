package sources

import (
	"errors"
	"net/http"
)

// Domain errors for source operations.
var (
	// ErrSourceUnavailable wraps connection or lookup failures against the
	// underlying source; the pipeline propagates it without ever reaching
	// the prompt compiler.
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrEntityNotFound    = errors.New("entity not found in source")
	ErrUnknownSource     = errors.New("unknown source type")
)

// MapHTTPStatus maps source domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEntityNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnknownSource) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrSourceUnavailable) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
