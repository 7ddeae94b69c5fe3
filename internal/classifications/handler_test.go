package classifications_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/classifications"
	"github.com/JaimeStill/steward/internal/sensitivity"
	"github.com/JaimeStill/steward/internal/sources"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/routes"
)

type fakeSystem struct {
	classified  *classifications.ClassifyRequest
	reaggregate map[string]string
	record      *classifications.Classification
	err         error
}

func (f *fakeSystem) Classify(_ context.Context, req *classifications.ClassifyRequest) (*classifications.Classification, error) {
	f.classified = req
	return f.record, f.err
}

func (f *fakeSystem) Reaggregate(_ context.Context, _ uuid.UUID, comments map[string]string) (*classifications.Classification, error) {
	f.reaggregate = comments
	return f.record, f.err
}

func (f *fakeSystem) Reclassify(context.Context, uuid.UUID, []string) (*classifications.Classification, error) {
	return f.record, f.err
}

func (f *fakeSystem) Find(context.Context, uuid.UUID) (*classifications.Classification, error) {
	return f.record, f.err
}

func (f *fakeSystem) FindByEntity(context.Context, sources.Type, string) (*classifications.Classification, error) {
	return f.record, f.err
}

func (f *fakeSystem) List(context.Context, pagination.PageRequest) (pagination.PageResult[classifications.Classification], error) {
	return pagination.PageResult[classifications.Classification]{}, f.err
}

func (f *fakeSystem) Delete(context.Context, uuid.UUID) error {
	return f.err
}

func newMux(system classifications.System) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(discard{}, nil))
	handler := classifications.NewHandler(system, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, logger)

	mux := http.NewServeMux()
	routes.Register(mux, handler.Routes())
	return mux
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func sampleRecord() *classifications.Classification {
	return &classifications.Classification{
		ID:           uuid.New(),
		EntityName:   "clients",
		Source:       sources.TypePostgres,
		OverallLevel: sensitivity.LevelSecret,
		Label:        "Secret",
	}
}

func TestClassifyEndpoint(t *testing.T) {
	system := &fakeSystem{record: sampleRecord()}
	mux := newMux(system)

	body := `{"source":"postgres","entity_name":"clients"}`
	req := httptest.NewRequest(http.MethodPost, "/classifications", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if system.classified == nil || system.classified.EntityName != "clients" {
		t.Errorf("request not forwarded: %+v", system.classified)
	}

	var result classifications.Classification
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Label != "Secret" {
		t.Errorf("label = %q, want Secret", result.Label)
	}
}

func TestClassifyValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown source", `{"source":"oracle","entity_name":"clients"}`},
		{"missing entity", `{"source":"postgres"}`},
		{"malformed json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system := &fakeSystem{record: sampleRecord()}
			mux := newMux(system)

			req := httptest.NewRequest(http.MethodPost, "/classifications", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if system.classified != nil {
				t.Error("invalid request reached the system")
			}
		})
	}
}

func TestReaggregateEndpoint(t *testing.T) {
	system := &fakeSystem{record: sampleRecord()}
	mux := newMux(system)

	id := uuid.New()
	body := `{"comments":{"iban":"niveau 5"}}`
	req := httptest.NewRequest(http.MethodPost, "/classifications/"+id.String()+"/reaggregate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if system.reaggregate["iban"] != "niveau 5" {
		t.Errorf("comments not forwarded: %+v", system.reaggregate)
	}
}

func TestReclassifyRequiresFields(t *testing.T) {
	system := &fakeSystem{record: sampleRecord()}
	mux := newMux(system)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/classifications/"+id.String()+"/reclassify", strings.NewReader(`{"fields":[]}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestNotFoundMapsTo404(t *testing.T) {
	system := &fakeSystem{err: classifications.ErrNotFound}
	mux := newMux(system)

	req := httptest.NewRequest(http.MethodGet, "/classifications/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestInvalidIDRejected(t *testing.T) {
	system := &fakeSystem{record: sampleRecord()}
	mux := newMux(system)

	req := httptest.NewRequest(http.MethodGet, "/classifications/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
