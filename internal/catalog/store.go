package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/repository"
)

// SyncState is the last step a classification completed against the
// catalog. A retry resumes from the recorded state instead of restarting.
type SyncState string

// Sync states in pipeline order.
const (
	StateUnsynced            SyncState = "unsynced"
	StateEntityCreated       SyncState = "entity_created"
	StateGuidResolved        SyncState = "guid_resolved"
	StateClassified          SyncState = "classified"
	StateJustificationLinked SyncState = "justification_linked"
	StateSynced              SyncState = "synced"
)

var stateOrder = map[SyncState]int{
	StateUnsynced:            0,
	StateEntityCreated:       1,
	StateGuidResolved:        2,
	StateClassified:          3,
	StateJustificationLinked: 4,
	StateSynced:              5,
}

// Reached reports whether s has progressed at least as far as target.
func (s SyncState) Reached(target SyncState) bool {
	return stateOrder[s] >= stateOrder[target]
}

// SyncRecord is the persisted sync progress for one classification.
type SyncRecord struct {
	ClassificationID uuid.UUID `json:"classification_id"`
	State            SyncState `json:"state"`
	GUID             string    `json:"guid,omitempty"`
	LastError        string    `json:"last_error,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StateStore persists per-classification sync progress.
type StateStore interface {
	// Get returns the record for a classification, or a fresh unsynced
	// record when none exists.
	Get(ctx context.Context, id uuid.UUID) (*SyncRecord, error)
	// Find returns the record for a classification, failing when none
	// exists.
	Find(ctx context.Context, id uuid.UUID) (*SyncRecord, error)
	Save(ctx context.Context, record *SyncRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Store persists sync state in the owned database.
type Store struct {
	db *sql.DB
}

// NewStore creates a sync state store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func scanSyncRecord(s repository.Scanner) (SyncRecord, error) {
	var r SyncRecord
	err := s.Scan(&r.ClassificationID, &r.State, &r.GUID, &r.LastError, &r.UpdatedAt)
	return r, err
}

// Get returns the sync record for a classification, or a fresh unsynced
// record when none has been written yet.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*SyncRecord, error) {
	query := `
		SELECT classification_id, state, guid, last_error, updated_at
		FROM sync_states
		WHERE classification_id = $1`

	record, err := repository.QueryOne(ctx, s.db, query, []any{id}, scanSyncRecord)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &SyncRecord{ClassificationID: id, State: StateUnsynced}, nil
		}
		return nil, err
	}
	return &record, nil
}

// Find returns the sync record for a classification, failing when none
// exists.
func (s *Store) Find(ctx context.Context, id uuid.UUID) (*SyncRecord, error) {
	query := `
		SELECT classification_id, state, guid, last_error, updated_at
		FROM sync_states
		WHERE classification_id = $1`

	record, err := repository.QueryOne(ctx, s.db, query, []any{id}, scanSyncRecord)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSyncNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Save upserts the sync record for a classification.
func (s *Store) Save(ctx context.Context, record *SyncRecord) error {
	query := `
		INSERT INTO sync_states (classification_id, state, guid, last_error)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (classification_id) DO UPDATE SET
			state = EXCLUDED.state,
			guid = EXCLUDED.guid,
			last_error = EXCLUDED.last_error,
			updated_at = now()`

	_, err := s.db.ExecContext(ctx, query, record.ClassificationID, record.State, record.GUID, record.LastError)
	return err
}

// Delete removes the sync record for a classification.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sync_states WHERE classification_id = $1", id)
	return err
}
