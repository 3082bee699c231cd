// Package pgcatalog serves the catalog straight from PostgreSQL, for
// deployments that run next to the data API's database.
package pgcatalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evisdrenova/zonaei-skill/internal/catalog"
)

const schema = `
CREATE TABLE IF NOT EXISTS programs (
	name        TEXT PRIMARY KEY,
	description TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS projects (
	name          TEXT PRIMARY KEY,
	description   TEXT NOT NULL DEFAULT '',
	members       TEXT[] NOT NULL DEFAULT '{}',
	current_stage TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS projects_current_stage_idx ON projects (current_stage);
`

type Store struct {
	pool *pgxpool.Pool
}

var _ catalog.Catalog = (*Store)(nil)

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Store) ProgramByName(ctx context.Context, name string) (*catalog.Program, error) {
	var p catalog.Program
	err := s.pool.QueryRow(ctx,
		`SELECT name, description FROM programs WHERE lower(name) = lower($1)`, name,
	).Scan(&p.Name, &p.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", name, err)
	}
	return &p, nil
}

func (s *Store) ProjectsByStage(ctx context.Context, stage string) ([]catalog.Project, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, description, members, current_stage FROM projects
		 WHERE lower(current_stage) = lower($1) ORDER BY name`, stage)
	if err != nil {
		return nil, fmt.Errorf("projects for stage %q: %w", stage, err)
	}
	projects, err := pgx.CollectRows(rows, scanProject)
	if err != nil {
		return nil, fmt.Errorf("projects for stage %q: %w", stage, err)
	}
	return projects, nil
}

func (s *Store) ProjectByName(ctx context.Context, name string) (*catalog.Project, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, description, members, current_stage FROM projects
		 WHERE lower(name) = lower($1)`, name)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", name, err)
	}
	p, err := pgx.CollectOneRow(rows, scanProject)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", name, err)
	}
	return &p, nil
}

// UpsertProgram and UpsertProject seed the tables.
func (s *Store) UpsertProgram(ctx context.Context, p catalog.Program) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO programs (name, description) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description`,
		p.Name, p.Description)
	return err
}

func (s *Store) UpsertProject(ctx context.Context, p catalog.Project) error {
	members := p.Members
	if members == nil {
		members = []string{}
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO projects (name, description, members, current_stage) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description,
		   members = EXCLUDED.members, current_stage = EXCLUDED.current_stage`,
		p.Name, p.Description, members, p.CurrentStage)
	return err
}

func scanProject(row pgx.CollectableRow) (catalog.Project, error) {
	var p catalog.Project
	err := row.Scan(&p.Name, &p.Description, &p.Members, &p.CurrentStage)
	return p, err
}
