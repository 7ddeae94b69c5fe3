package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/catalog"
	"github.com/JaimeStill/steward/internal/classifications"
	"github.com/JaimeStill/steward/internal/sensitivity"
	"github.com/JaimeStill/steward/internal/sources"
	"github.com/JaimeStill/steward/pkg/pagination"
)

type memoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]catalog.SyncRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[uuid.UUID]catalog.SyncRecord)}
}

func (m *memoryStore) Get(_ context.Context, id uuid.UUID) (*catalog.SyncRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok {
		return &r, nil
	}
	return &catalog.SyncRecord{ClassificationID: id, State: catalog.StateUnsynced}, nil
}

func (m *memoryStore) Find(_ context.Context, id uuid.UUID) (*catalog.SyncRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok {
		return &r, nil
	}
	return nil, catalog.ErrSyncNotFound
}

func (m *memoryStore) Save(_ context.Context, record *catalog.SyncRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ClassificationID] = *record
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

type fakeClassifications struct {
	records map[uuid.UUID]*classifications.Classification
}

func (f *fakeClassifications) Classify(context.Context, *classifications.ClassifyRequest) (*classifications.Classification, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClassifications) Reaggregate(context.Context, uuid.UUID, map[string]string) (*classifications.Classification, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClassifications) Reclassify(context.Context, uuid.UUID, []string) (*classifications.Classification, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClassifications) Find(_ context.Context, id uuid.UUID) (*classifications.Classification, error) {
	if record, ok := f.records[id]; ok {
		return record, nil
	}
	return nil, classifications.ErrNotFound
}

func (f *fakeClassifications) FindByEntity(context.Context, sources.Type, string) (*classifications.Classification, error) {
	return nil, classifications.ErrNotFound
}

func (f *fakeClassifications) List(context.Context, pagination.PageRequest) (pagination.PageResult[classifications.Classification], error) {
	return pagination.PageResult[classifications.Classification]{}, nil
}

func (f *fakeClassifications) Delete(context.Context, uuid.UUID) error {
	return nil
}

func record(entity string) *classifications.Classification {
	return &classifications.Classification{
		ID:                 uuid.New(),
		EntityName:         entity,
		Source:             sources.TypePostgres,
		OverallLevel:       sensitivity.LevelSecret,
		Label:              "Secret",
		FinalJustification: "Identifiants bancaires. F:2 C:4 R:4 O:2",
		Fields: []sensitivity.FieldClassification{
			{FieldName: "iban", Justification: "F:2 C:4 R:4 O:2", FCROMax: 4},
		},
	}
}

// catalogStub emulates the catalog API, tracking calls per endpoint.
type catalogStub struct {
	mu                sync.Mutex
	creates           int
	resolves          int
	classifies        int
	justifications    int
	failResolveFor    string
	alreadyClassified bool
}

func (s *catalogStub) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /entity", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Entity struct {
				TypeName   string         `json:"typeName"`
				Attributes map[string]any `json:"attributes"`
			} `json:"entity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("bad entity payload: %v", err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if payload.Entity.TypeName == "llm_justification" {
			s.justifications++
		} else {
			s.creates++
			if qn, _ := payload.Entity.Attributes["qualifiedName"].(string); !strings.Contains(qn, "@") {
				t.Errorf("qualifiedName missing cluster scope: %q", qn)
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /entity/uniqueAttribute/type/{type}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.resolves++
		fail := s.failResolveFor != "" && strings.Contains(r.URL.RawQuery, s.failResolveFor)
		s.mu.Unlock()

		if fail {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"entity": map[string]string{"guid": "guid-123"}})
	})

	mux.HandleFunc("POST /entity/guid/{guid}/classifications", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.classifies++
		already := s.alreadyClassified
		s.mu.Unlock()

		if already {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"errorCode":"ATLAS-400","errorMessage":"instance guid-123 already associated with classification"}`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func newSynchronizer(t *testing.T, stub *catalogStub, store catalog.StateStore, system classifications.System) *catalog.Synchronizer {
	server := httptest.NewServer(stub.handler(t))
	t.Cleanup(server.Close)

	cfg := catalog.Config{BaseURL: server.URL, Password: "admin"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}

	client := catalog.NewClient(&cfg)
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	return catalog.NewSynchronizer(client, store, system, logger)
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSpace(string(p)))
	return len(p), nil
}

func TestSyncCompletesAllSteps(t *testing.T) {
	c := record("clients")
	stub := &catalogStub{}
	store := newMemoryStore()
	system := &fakeClassifications{records: map[uuid.UUID]*classifications.Classification{c.ID: c}}

	s := newSynchronizer(t, stub, store, system)

	report, err := s.Sync(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	if !report.Synced {
		t.Errorf("report not synced: %+v", report)
	}
	if report.State != catalog.StateSynced {
		t.Errorf("state = %q, want %q", report.State, catalog.StateSynced)
	}
	if report.GUID != "guid-123" {
		t.Errorf("guid = %q, want guid-123", report.GUID)
	}

	if stub.creates != 1 || stub.resolves != 1 || stub.classifies != 1 || stub.justifications != 1 {
		t.Errorf("calls = create %d resolve %d classify %d justify %d, want 1 each",
			stub.creates, stub.resolves, stub.classifies, stub.justifications)
	}

	persisted, err := store.Find(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("state not persisted: %v", err)
	}
	if persisted.State != catalog.StateSynced {
		t.Errorf("persisted state = %q, want synced", persisted.State)
	}
}

func TestSyncTreatsAlreadyClassifiedAsSuccess(t *testing.T) {
	c := record("clients")
	stub := &catalogStub{alreadyClassified: true}
	store := newMemoryStore()
	system := &fakeClassifications{records: map[uuid.UUID]*classifications.Classification{c.ID: c}}

	s := newSynchronizer(t, stub, store, system)

	report, err := s.Sync(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	if !report.Synced {
		t.Errorf("already classified should count as success: %+v", report)
	}
}

func TestSyncResumesFromRecordedState(t *testing.T) {
	c := record("clients")
	stub := &catalogStub{}
	store := newMemoryStore()
	store.Save(context.Background(), &catalog.SyncRecord{
		ClassificationID: c.ID,
		State:            catalog.StateClassified,
		GUID:             "guid-123",
	})
	system := &fakeClassifications{records: map[uuid.UUID]*classifications.Classification{c.ID: c}}

	s := newSynchronizer(t, stub, store, system)

	report, err := s.Sync(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	if !report.Synced {
		t.Errorf("resume did not complete: %+v", report)
	}
	if stub.creates != 0 || stub.resolves != 0 || stub.classifies != 0 {
		t.Errorf("completed steps were repeated: create %d resolve %d classify %d",
			stub.creates, stub.resolves, stub.classifies)
	}
	if stub.justifications != 1 {
		t.Errorf("justifications = %d, want 1", stub.justifications)
	}
}

func TestSyncReportsFailedStep(t *testing.T) {
	c := record("clients")
	stub := &catalogStub{failResolveFor: "clients"}
	store := newMemoryStore()
	system := &fakeClassifications{records: map[uuid.UUID]*classifications.Classification{c.ID: c}}

	s := newSynchronizer(t, stub, store, system)

	report, err := s.Sync(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("sync returned error instead of report: %v", err)
	}

	if report.Synced {
		t.Error("failed sync reported as synced")
	}
	if report.FailedStep != "resolve_guid" {
		t.Errorf("failed step = %q, want resolve_guid", report.FailedStep)
	}
	if report.State != catalog.StateEntityCreated {
		t.Errorf("state = %q, want entity_created", report.State)
	}
	if report.Error == "" {
		t.Error("error detail missing from report")
	}
}

func TestSyncBatchIsolatesFailures(t *testing.T) {
	a := record("clients")
	b := record("comptes")
	stub := &catalogStub{failResolveFor: "clients"}
	store := newMemoryStore()
	system := &fakeClassifications{records: map[uuid.UUID]*classifications.Classification{
		a.ID: a,
		b.ID: b,
	}}

	s := newSynchronizer(t, stub, store, system)

	reports := s.SyncBatch(context.Background(), []uuid.UUID{a.ID, b.ID})
	if len(reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(reports))
	}

	if reports[0].Synced {
		t.Error("failing entity reported as synced")
	}
	if !reports[1].Synced {
		t.Errorf("sibling entity blocked by failure: %+v", reports[1])
	}
}

func TestSyncBatchReportsMissingClassification(t *testing.T) {
	stub := &catalogStub{}
	store := newMemoryStore()
	system := &fakeClassifications{records: map[uuid.UUID]*classifications.Classification{}}

	s := newSynchronizer(t, stub, store, system)

	reports := s.SyncBatch(context.Background(), []uuid.UUID{uuid.New()})
	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
	if reports[0].Synced || reports[0].Error == "" {
		t.Errorf("missing classification should surface as failed report: %+v", reports[0])
	}
}
