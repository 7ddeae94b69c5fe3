// Package model implements the language model collaborator used by the
// classification pipeline. The pipeline only depends on the Completer
// contract; the concrete client targets the Google Generative Language API.
package model

import (
	"context"
	"errors"
	"net/http"
)

// Completer produces a free-text completion for a compiled prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Domain errors for model operations.
var (
	ErrCompletionFailed = errors.New("completion failed")
	ErrEmptyCompletion  = errors.New("model returned empty completion")
)

// MapHTTPStatus maps model errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrCompletionFailed) || errors.Is(err, ErrEmptyCompletion) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
