// Package sources implements the metadata source collaborators: listing
// classifiable entities and building normalized descriptors from a
// PostgreSQL schema or a MongoDB database. The pipeline consumes sources
// read-only; no write access is ever required.
package sources

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"

	"github.com/JaimeStill/steward/pkg/lifecycle"
)

// Type identifies the kind of metadata source an entity belongs to.
type Type string

// Supported source types.
const (
	TypePostgres Type = "postgres"
	TypeMongo    Type = "mongo"
)

var types = []Type{TypePostgres, TypeMongo}

// ParseType validates a string as a known source type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !slices.Contains(types, t) {
		return "", ErrUnknownSource
	}
	return t, nil
}

// UnmarshalJSON validates that the decoded string is a known source type.
func (t *Type) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseType(raw)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// System defines the read contract a metadata source exposes to the
// classification pipeline.
type System interface {
	// ListEntities returns the names of classifiable entities
	// (tables or collections).
	ListEntities(ctx context.Context) ([]string, error)
	// Describe returns one normalized descriptor per column or field of
	// the named entity.
	Describe(ctx context.Context, entity string) ([]Descriptor, error)
	// Sample returns a representative textual value for the named entity.
	Sample(ctx context.Context, entity string) (string, error)
}

// Closer is implemented by sources that hold connections to release on
// shutdown.
type Closer interface {
	Close(ctx context.Context) error
}

// Registry resolves a source System by type.
type Registry struct {
	Postgres System
	Mongo    System
}

// Start registers shutdown hooks that release source connections once the
// coordinator's context is cancelled.
func (r *Registry) Start(lc *lifecycle.Coordinator, logger *slog.Logger) {
	entries := []struct {
		name string
		sys  System
	}{
		{"postgres", r.Postgres},
		{"mongo", r.Mongo},
	}

	for _, entry := range entries {
		closer, ok := entry.sys.(Closer)
		if !ok {
			continue
		}

		lc.OnShutdown(func() {
			<-lc.Context().Done()

			if err := closer.Close(context.Background()); err != nil {
				logger.Error("source close failed", "source", entry.name, "error", err)
				return
			}

			logger.Info("source connection closed", "source", entry.name)
		})
	}
}

// Lookup returns the System for the given source type.
func (r *Registry) Lookup(t Type) (System, error) {
	switch t {
	case TypePostgres:
		if r.Postgres == nil {
			return nil, ErrUnknownSource
		}
		return r.Postgres, nil
	case TypeMongo:
		if r.Mongo == nil {
			return nil, ErrUnknownSource
		}
		return r.Mongo, nil
	default:
		return nil, ErrUnknownSource
	}
}
