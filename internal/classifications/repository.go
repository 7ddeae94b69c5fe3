package classifications

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/sensitivity"
	"github.com/JaimeStill/steward/internal/sources"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/repository"
)

const classificationColumns = `
	id, entity_name, source_type, overall_level, label,
	result_text, final_justification, fields, created_at, updated_at`

func scanClassification(s repository.Scanner) (Classification, error) {
	var c Classification
	var fields []byte

	err := s.Scan(
		&c.ID, &c.EntityName, &c.Source, &c.OverallLevel, &c.Label,
		&c.ResultText, &c.FinalJustification, &fields, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return c, err
	}

	if err := json.Unmarshal(fields, &c.Fields); err != nil {
		return c, fmt.Errorf("decode fields: %w", err)
	}

	return c, nil
}

type store struct {
	db *sql.DB
}

// upsert writes the session record for (entity_name, source_type), creating
// it on first classification and overwriting it on repeats.
func (s *store) upsert(ctx context.Context, c *Classification) (*Classification, error) {
	query := fmt.Sprintf(`
		INSERT INTO classifications (
			entity_name, source_type, overall_level, label,
			result_text, final_justification, fields
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (entity_name, source_type) DO UPDATE SET
			overall_level = EXCLUDED.overall_level,
			label = EXCLUDED.label,
			result_text = EXCLUDED.result_text,
			final_justification = EXCLUDED.final_justification,
			fields = EXCLUDED.fields,
			updated_at = now()
		RETURNING %s`, classificationColumns)

	fields, err := json.Marshal(fieldsOrEmpty(c.Fields))
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}

	result, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Classification, error) {
		return repository.QueryOne(ctx, tx, query, []any{
			c.EntityName, c.Source, int(c.OverallLevel), c.Label,
			c.ResultText, c.FinalJustification, fields,
		}, scanClassification)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrConflict)
	}

	return &result, nil
}

// update rewrites the mutable rating state of an existing record.
func (s *store) update(ctx context.Context, c *Classification) (*Classification, error) {
	query := fmt.Sprintf(`
		UPDATE classifications SET
			overall_level = $2,
			label = $3,
			result_text = $4,
			final_justification = $5,
			fields = $6,
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, classificationColumns)

	fields, err := json.Marshal(fieldsOrEmpty(c.Fields))
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}

	result, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Classification, error) {
		return repository.QueryOne(ctx, tx, query, []any{
			c.ID, int(c.OverallLevel), c.Label,
			c.ResultText, c.FinalJustification, fields,
		}, scanClassification)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrConflict)
	}

	return &result, nil
}

func (s *store) find(ctx context.Context, id uuid.UUID) (*Classification, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM classifications
		WHERE id = $1`, classificationColumns)

	result, err := repository.QueryOne(ctx, s.db, query, []any{id}, scanClassification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrConflict)
	}
	return &result, nil
}

func (s *store) findByEntity(ctx context.Context, source sources.Type, entity string) (*Classification, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM classifications
		WHERE source_type = $1 AND entity_name = $2`, classificationColumns)

	result, err := repository.QueryOne(ctx, s.db, query, []any{source, entity}, scanClassification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrConflict)
	}
	return &result, nil
}

func (s *store) list(ctx context.Context, page pagination.PageRequest) (pagination.PageResult[Classification], error) {
	var zero pagination.PageResult[Classification]

	where := ""
	args := []any{}
	if page.Search != nil {
		where = "WHERE entity_name ILIKE $1"
		args = append(args, "%"+*page.Search+"%")
	}

	countQuery := fmt.Sprintf("SELECT count(*) FROM classifications %s", where)
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return zero, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM classifications
		%s
		ORDER BY updated_at DESC
		LIMIT $%d OFFSET $%d`, classificationColumns, where, len(args)+1, len(args)+2)
	args = append(args, page.PageSize, page.Offset())

	results, err := repository.QueryMany(ctx, s.db, query, args, scanClassification)
	if err != nil {
		return zero, err
	}

	return pagination.NewPageResult(results, total, page.Page, page.PageSize), nil
}

func (s *store) delete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, s.db, "DELETE FROM classifications WHERE id = $1", id)
	return repository.MapError(err, ErrNotFound, ErrConflict)
}

func fieldsOrEmpty(fields []sensitivity.FieldClassification) []sensitivity.FieldClassification {
	if fields == nil {
		return []sensitivity.FieldClassification{}
	}
	return fields
}
