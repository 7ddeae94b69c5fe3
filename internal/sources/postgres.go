package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements System over a PostgreSQL schema. Introspection runs
// against information_schema; the pool is created lazily-connecting, so an
// unreachable source surfaces as ErrSourceUnavailable per call rather than
// failing service startup.
type Postgres struct {
	pool   *pgxpool.Pool
	schema string
}

// NewPostgres creates a PostgreSQL source from the given configuration.
func NewPostgres(cfg *PostgresConfig) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("parse source config: %w", err)
	}
	// Introspection is light; one connection is enough.
	poolCfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create source pool: %w", err)
	}

	return &Postgres{pool: pool, schema: cfg.Schema}, nil
}

// Close releases the source connection pool.
func (p *Postgres) Close(_ context.Context) error {
	p.pool.Close()
	return nil
}

func (p *Postgres) ListEntities(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	rows, err := p.pool.Query(ctx, query, p.schema)
	if err != nil {
		return nil, fmt.Errorf("%w: list tables: %w", ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: scan table name: %w", ErrSourceUnavailable, err)
		}
		tables = append(tables, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list tables: %w", ErrSourceUnavailable, err)
	}

	return tables, nil
}

func (p *Postgres) Describe(ctx context.Context, entity string) ([]Descriptor, error) {
	query := `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`

	rows, err := p.pool.Query(ctx, query, p.schema, entity)
	if err != nil {
		return nil, fmt.Errorf("%w: describe %s: %w", ErrSourceUnavailable, entity, err)
	}
	defer rows.Close()

	var descriptors []Descriptor
	for rows.Next() {
		var d Descriptor
		if err := rows.Scan(&d.Name, &d.Type); err != nil {
			return nil, fmt.Errorf("%w: scan column: %w", ErrSourceUnavailable, err)
		}
		d.Kind = KindColumn
		descriptors = append(descriptors, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: describe %s: %w", ErrSourceUnavailable, entity, err)
	}

	if len(descriptors) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entity)
	}

	return descriptors, nil
}

func (p *Postgres) Sample(ctx context.Context, entity string) (string, error) {
	descriptors, err := p.Describe(ctx, entity)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Table %s.%s\n", p.schema, entity)
	for _, d := range descriptors {
		fmt.Fprintf(&sb, "- %s (%s)\n", d.Name, d.Type)
	}
	return sb.String(), nil
}
