package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/classifications"
	"github.com/JaimeStill/steward/internal/sensitivity"
)

// Report is the outcome of syncing one classification. Failure is a
// reported result, never a panic or a batch abort: State records the last
// step that completed and FailedStep names the one that did not.
type Report struct {
	ClassificationID uuid.UUID `json:"classification_id"`
	EntityName       string    `json:"entity_name"`
	State            SyncState `json:"state"`
	GUID             string    `json:"guid,omitempty"`
	Synced           bool      `json:"synced"`
	FailedStep       string    `json:"failed_step,omitempty"`
	Error            string    `json:"error,omitempty"`
}

// Synchronizer pushes classification sessions into the catalog one step at
// a time, persisting progress so interrupted syncs resume where they
// stopped.
type Synchronizer struct {
	client          *Client
	store           StateStore
	classifications classifications.System
	logger          *slog.Logger
}

// NewSynchronizer creates a catalog synchronizer.
func NewSynchronizer(client *Client, store StateStore, system classifications.System, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		client:          client,
		store:           store,
		classifications: system,
		logger:          logger.With("system", "catalog"),
	}
}

// Sync pushes one classification through the step sequence, resuming from
// its recorded state. Completed steps are never repeated.
func (s *Synchronizer) Sync(ctx context.Context, id uuid.UUID) (*Report, error) {
	record, err := s.classifications.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	progress, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ClassificationID: id,
		EntityName:       record.EntityName,
		State:            progress.State,
		GUID:             progress.GUID,
	}

	if !progress.State.Reached(StateEntityCreated) {
		if err := s.client.CreateEntity(ctx, record.Source, record.EntityName, record.FinalJustification, record.OverallLevel); err != nil {
			return s.fail(ctx, progress, report, "create_entity", err), nil
		}
		s.advance(ctx, progress, report, StateEntityCreated)
	}

	if !progress.State.Reached(StateGuidResolved) {
		guid, err := s.client.ResolveGUID(ctx, record.Source, record.EntityName)
		if err != nil {
			return s.fail(ctx, progress, report, "resolve_guid", err), nil
		}
		progress.GUID = guid
		report.GUID = guid
		s.advance(ctx, progress, report, StateGuidResolved)
	}

	if !progress.State.Reached(StateClassified) {
		err := s.client.AddClassification(ctx, progress.GUID, record.OverallLevel, record.FinalJustification)
		if err != nil && !errors.Is(err, ErrAlreadyClassified) {
			return s.fail(ctx, progress, report, "add_classification", err), nil
		}
		s.advance(ctx, progress, report, StateClassified)
	}

	if !progress.State.Reached(StateJustificationLinked) {
		scores := sensitivity.MaxScores(record.Fields)
		err := s.client.CreateJustification(ctx, progress.GUID, record.Source, record.EntityName,
			record.FinalJustification, scores, record.OverallLevel)
		if err != nil {
			return s.fail(ctx, progress, report, "create_justification", err), nil
		}
		s.advance(ctx, progress, report, StateJustificationLinked)
	}

	if !progress.State.Reached(StateSynced) {
		s.advance(ctx, progress, report, StateSynced)
	}

	report.Synced = true
	s.logger.Info("classification synced", "entity", record.EntityName, "guid", progress.GUID)
	return report, nil
}

// SyncBatch syncs each classification independently. One entity's failure
// never blocks its siblings; the returned reports carry per-entity outcomes
// in input order.
func (s *Synchronizer) SyncBatch(ctx context.Context, ids []uuid.UUID) []Report {
	reports := make([]Report, 0, len(ids))

	for _, id := range ids {
		report, err := s.Sync(ctx, id)
		if err != nil {
			reports = append(reports, Report{
				ClassificationID: id,
				State:            StateUnsynced,
				FailedStep:       "load",
				Error:            err.Error(),
			})
			continue
		}
		reports = append(reports, *report)
	}

	return reports
}

func (s *Synchronizer) advance(ctx context.Context, progress *SyncRecord, report *Report, state SyncState) {
	progress.State = state
	progress.LastError = ""
	report.State = state

	if err := s.store.Save(ctx, progress); err != nil {
		// The catalog write already happened; a lost checkpoint only costs
		// an extra idempotent retry later.
		s.logger.Warn("sync state not persisted", "classification", progress.ClassificationID, "state", state, "error", err)
	}
}

func (s *Synchronizer) fail(ctx context.Context, progress *SyncRecord, report *Report, step string, err error) *Report {
	progress.LastError = err.Error()
	report.FailedStep = step
	report.Error = err.Error()

	if saveErr := s.store.Save(ctx, progress); saveErr != nil {
		s.logger.Warn("sync state not persisted", "classification", progress.ClassificationID, "error", saveErr)
	}

	s.logger.Error("sync step failed",
		"classification", progress.ClassificationID,
		"entity", report.EntityName,
		"step", step,
		"state", progress.State,
		"error", err,
	)
	return report
}
