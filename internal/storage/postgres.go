package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/romangod6/sitemapgen/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS generation_runs (
            id UUID PRIMARY KEY,
            site_url VARCHAR(2048) NOT NULL,
            status VARCHAR(32) NOT NULL,
            url_count INTEGER NOT NULL DEFAULT 0,
            excluded_count INTEGER NOT NULL DEFAULT 0,
            files TEXT[],
            error TEXT,
            started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            finished_at TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_generation_runs_started_at ON generation_runs(started_at DESC)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, run *models.GenerationRun) error {
	query := `
        INSERT INTO generation_runs (id, site_url, status, url_count, excluded_count, files, error, started_at, finished_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.SiteURL,
		run.Status,
		run.URLCount,
		run.ExcludedCount,
		pq.Array(run.Files),
		run.Error,
		run.StartedAt,
		run.FinishedAt,
	)

	return err
}

func (s *PostgresStore) UpdateRun(ctx context.Context, run *models.GenerationRun) error {
	query := `
        UPDATE generation_runs
        SET status = $1, url_count = $2, excluded_count = $3, files = $4, error = $5, finished_at = $6
        WHERE id = $7
    `

	result, err := s.db.ExecContext(ctx, query,
		run.Status,
		run.URLCount,
		run.ExcludedCount,
		pq.Array(run.Files),
		run.Error,
		run.FinishedAt,
		run.ID,
	)
	if err != nil {
		return err
	}

	return requireAffected(result, run.ID)
}

func (s *PostgresStore) GetRun(ctx context.Context, id uuid.UUID) (*models.GenerationRun, error) {
	query := `
        SELECT id, site_url, status, url_count, excluded_count, files, error, started_at, finished_at
        FROM generation_runs
        WHERE id = $1
    `

	run := &models.GenerationRun{}
	var errMsg sql.NullString
	var finishedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.SiteURL,
		&run.Status,
		&run.URLCount,
		&run.ExcludedCount,
		pq.Array(&run.Files),
		&errMsg,
		&run.StartedAt,
		&finishedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	run.Error = errMsg.String
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}

	return run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit, offset int) ([]*models.GenerationRun, error) {
	query := `
        SELECT id, site_url, status, url_count, excluded_count, files, error, started_at, finished_at
        FROM generation_runs
        ORDER BY started_at DESC
        LIMIT $1 OFFSET $2
    `

	// LIMIT NULL is the same as no limit.
	var pgLimit interface{} = limit
	if limit <= 0 {
		pgLimit = nil
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, query, pgLimit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.GenerationRun
	for rows.Next() {
		var run models.GenerationRun
		var errMsg sql.NullString
		var finishedAt sql.NullTime

		err := rows.Scan(
			&run.ID,
			&run.SiteURL,
			&run.Status,
			&run.URLCount,
			&run.ExcludedCount,
			pq.Array(&run.Files),
			&errMsg,
			&run.StartedAt,
			&finishedAt,
		)
		if err != nil {
			return nil, err
		}

		run.Error = errMsg.String
		if finishedAt.Valid {
			t := finishedAt.Time
			run.FinishedAt = &t
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

func (s *PostgresStore) CountRuns(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM generation_runs`).Scan(&count)
	return count, err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
