package classifications

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/steward/internal/workflow"
)

// Domain errors for classification operations.
var (
	ErrNotFound = errors.New("classification not found")
	ErrConflict = errors.New("classification already exists")
)

// MapHTTPStatus maps classification errors, including pipeline errors, to
// appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	return workflow.MapHTTPStatus(err)
}
