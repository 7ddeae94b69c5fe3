package classifications

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/sensitivity"
	"github.com/JaimeStill/steward/internal/sources"
	"github.com/JaimeStill/steward/internal/workflow"
	"github.com/JaimeStill/steward/pkg/pagination"
)

// System defines classification session operations.
type System interface {
	// Classify runs the full pipeline for an entity and upserts its
	// session record.
	Classify(ctx context.Context, req *ClassifyRequest) (*Classification, error)
	// Reaggregate applies reviewer comment overrides to field ratings and
	// recomputes the aggregate without calling the model.
	Reaggregate(ctx context.Context, id uuid.UUID, comments map[string]string) (*Classification, error)
	// Reclassify reruns the model for the entity and splices the fresh
	// ratings for the selected fields into the existing record.
	Reclassify(ctx context.Context, id uuid.UUID, fields []string) (*Classification, error)
	Find(ctx context.Context, id uuid.UUID) (*Classification, error)
	FindByEntity(ctx context.Context, source sources.Type, entity string) (*Classification, error)
	List(ctx context.Context, page pagination.PageRequest) (pagination.PageResult[Classification], error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store   *store
	runtime *workflow.Runtime
	logger  *slog.Logger
}

// NewSystem creates the classification system over the given database and
// pipeline runtime.
func NewSystem(db *sql.DB, runtime *workflow.Runtime, logger *slog.Logger) System {
	return &service{
		store:   &store{db: db},
		runtime: runtime,
		logger:  logger.With("system", "classifications"),
	}
}

func (s *service) Classify(ctx context.Context, req *ClassifyRequest) (*Classification, error) {
	result, err := workflow.Execute(ctx, s.runtime, req.Source, req.EntityName)
	if err != nil {
		return nil, err
	}

	record := &Classification{
		EntityName:         req.EntityName,
		Source:             req.Source,
		OverallLevel:       result.OverallLevel,
		Label:              result.OverallLevel.Label(),
		ResultText:         result.Raw,
		FinalJustification: result.FinalJustification,
		Fields:             result.Fields,
	}

	stored, err := s.store.upsert(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logger.Info("entity classified",
		"entity", stored.EntityName,
		"source", stored.Source,
		"level", int(stored.OverallLevel),
		"fields", len(stored.Fields),
	)
	return stored, nil
}

func (s *service) Reaggregate(ctx context.Context, id uuid.UUID, comments map[string]string) (*Classification, error) {
	record, err := s.store.find(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Fields = sensitivity.ApplyComments(record.Fields, comments)
	record.OverallLevel = sensitivity.Aggregate(record.Fields)
	record.Label = record.OverallLevel.Label()

	stored, err := s.store.update(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logger.Info("classification reaggregated",
		"entity", stored.EntityName,
		"level", int(stored.OverallLevel),
		"comments", len(comments),
	)
	return stored, nil
}

func (s *service) Reclassify(ctx context.Context, id uuid.UUID, fields []string) (*Classification, error) {
	record, err := s.store.find(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := workflow.Execute(ctx, s.runtime, record.Source, record.EntityName)
	if err != nil {
		return nil, err
	}

	record.Fields = sensitivity.Splice(record.Fields, result.Fields, fields)
	record.OverallLevel = sensitivity.Aggregate(record.Fields)
	record.Label = record.OverallLevel.Label()
	record.ResultText = result.Raw
	record.FinalJustification = result.FinalJustification

	stored, err := s.store.update(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logger.Info("classification refreshed",
		"entity", stored.EntityName,
		"level", int(stored.OverallLevel),
		"selected", len(fields),
	)
	return stored, nil
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*Classification, error) {
	return s.store.find(ctx, id)
}

func (s *service) FindByEntity(ctx context.Context, source sources.Type, entity string) (*Classification, error) {
	return s.store.findByEntity(ctx, source, entity)
}

func (s *service) List(ctx context.Context, page pagination.PageRequest) (pagination.PageResult[Classification], error) {
	return s.store.list(ctx, page)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.delete(ctx, id)
}
