package catalog

import (
	"errors"
	"net/http"
)

// Domain errors for catalog operations.
var (
	// ErrAlreadyClassified reports that the catalog rejected a
	// classification write because the entity already carries one. The
	// synchronizer treats it as success.
	ErrAlreadyClassified = errors.New("entity already classified in catalog")
	ErrGUIDNotFound      = errors.New("entity guid not found in catalog")
	ErrCatalogRequest    = errors.New("catalog request failed")
	ErrSyncNotFound      = errors.New("sync state not found")
)

// MapHTTPStatus maps catalog errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrSyncNotFound) || errors.Is(err, ErrGUIDNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrCatalogRequest) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
