package sources_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/steward/internal/sources"
	"github.com/JaimeStill/steward/pkg/routes"
)

type fakeSource struct {
	entities    []string
	descriptors []sources.Descriptor
	err         error
}

func (f *fakeSource) ListEntities(context.Context) ([]string, error) {
	return f.entities, f.err
}

func (f *fakeSource) Describe(context.Context, string) ([]sources.Descriptor, error) {
	return f.descriptors, f.err
}

func (f *fakeSource) Sample(context.Context, string) (string, error) {
	return "sample", f.err
}

func newMux(system sources.System) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(discard{}, nil))
	handler := sources.NewHandler(&sources.Registry{Postgres: system}, logger)

	mux := http.NewServeMux()
	routes.Register(mux, handler.Routes())
	return mux
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestListEntities(t *testing.T) {
	mux := newMux(&fakeSource{entities: []string{"clients", "comptes"}})

	req := httptest.NewRequest(http.MethodGet, "/sources/postgres/entities", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var entities []string
	if err := json.NewDecoder(rec.Body).Decode(&entities); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entities) != 2 {
		t.Errorf("entities = %v", entities)
	}
}

func TestDescribeEntity(t *testing.T) {
	mux := newMux(&fakeSource{descriptors: []sources.Descriptor{
		{Name: "iban", Type: "text", Kind: sources.KindColumn},
	}})

	req := httptest.NewRequest(http.MethodGet, "/sources/postgres/entities/clients", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var descriptors []sources.Descriptor
	if err := json.NewDecoder(rec.Body).Decode(&descriptors); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(descriptors) != 1 || descriptors[0].Name != "iban" {
		t.Errorf("descriptors = %+v", descriptors)
	}
}

func TestSourceErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		name string
		path string
		err  error
		want int
	}{
		{"unknown source", "/sources/oracle/entities", nil, http.StatusBadRequest},
		{"unconfigured source", "/sources/mongo/entities", nil, http.StatusBadRequest},
		{"entity not found", "/sources/postgres/entities/absent", sources.ErrEntityNotFound, http.StatusNotFound},
		{"source unavailable", "/sources/postgres/entities", sources.ErrSourceUnavailable, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newMux(&fakeSource{err: tt.err})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
