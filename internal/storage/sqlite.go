package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/romangod6/sitemapgen/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS generation_runs (
            id TEXT PRIMARY KEY,
            site_url TEXT NOT NULL,
            status TEXT NOT NULL,
            url_count INTEGER NOT NULL DEFAULT 0,
            excluded_count INTEGER NOT NULL DEFAULT 0,
            files TEXT,
            error TEXT,
            started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            finished_at DATETIME
        )`,
		`CREATE INDEX IF NOT EXISTS idx_generation_runs_started_at ON generation_runs(started_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *SQLiteStore) CreateRun(ctx context.Context, run *models.GenerationRun) error {
	query := `
        INSERT INTO generation_runs (id, site_url, status, url_count, excluded_count, files, error, started_at, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	filesJSON, err := json.Marshal(run.Files)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query,
		run.ID.String(),
		run.SiteURL,
		run.Status,
		run.URLCount,
		run.ExcludedCount,
		string(filesJSON),
		run.Error,
		run.StartedAt,
		run.FinishedAt,
	)

	return err
}

func (s *SQLiteStore) UpdateRun(ctx context.Context, run *models.GenerationRun) error {
	query := `
        UPDATE generation_runs
        SET status = ?, url_count = ?, excluded_count = ?, files = ?, error = ?, finished_at = ?
        WHERE id = ?
    `

	filesJSON, err := json.Marshal(run.Files)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, query,
		run.Status,
		run.URLCount,
		run.ExcludedCount,
		string(filesJSON),
		run.Error,
		run.FinishedAt,
		run.ID.String(),
	)
	if err != nil {
		return err
	}

	return requireAffected(result, run.ID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, id uuid.UUID) (*models.GenerationRun, error) {
	query := `
        SELECT id, site_url, status, url_count, excluded_count, files, error, started_at, finished_at
        FROM generation_runs
        WHERE id = ?
    `

	runs, err := s.queryRuns(ctx, query, id.String())
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit, offset int) ([]*models.GenerationRun, error) {
	query := `
        SELECT id, site_url, status, url_count, excluded_count, files, error, started_at, finished_at
        FROM generation_runs
        ORDER BY started_at DESC
        LIMIT ? OFFSET ?
    `

	// SQLite reads a negative LIMIT as no limit.
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	return s.queryRuns(ctx, query, limit, offset)
}

func (s *SQLiteStore) CountRuns(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM generation_runs`).Scan(&count)
	return count, err
}

func (s *SQLiteStore) queryRuns(ctx context.Context, query string, args ...interface{}) ([]*models.GenerationRun, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.GenerationRun
	for rows.Next() {
		var run models.GenerationRun
		var idStr string
		var filesJSON, errMsg sql.NullString
		var finishedAt sql.NullTime

		err := rows.Scan(
			&idStr,
			&run.SiteURL,
			&run.Status,
			&run.URLCount,
			&run.ExcludedCount,
			&filesJSON,
			&errMsg,
			&run.StartedAt,
			&finishedAt,
		)
		if err != nil {
			return nil, err
		}

		run.ID, _ = uuid.Parse(idStr)
		run.Error = errMsg.String
		run.Files = []string{}
		if filesJSON.Valid && filesJSON.String != "" {
			if err := json.Unmarshal([]byte(filesJSON.String), &run.Files); err != nil {
				return nil, fmt.Errorf("failed to decode files of run %s: %w", idStr, err)
			}
		}
		if finishedAt.Valid {
			t := finishedAt.Time
			run.FinishedAt = &t
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func requireAffected(result sql.Result, id uuid.UUID) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	return nil
}
