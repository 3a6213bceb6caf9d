package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/platform/obs"
)

// SQLite backed store for sweep reports and async sweep jobs. Entries
// never expire; reports are keyed by request digest so a stale entry is
// still a correct answer.
type SqliteSweepCache struct {
	DB *sql.DB
}

func NewSqliteSweepCache(db *sql.DB) *SqliteSweepCache {
	return &SqliteSweepCache{DB: db}
}

func (s *SqliteSweepCache) GetReport(ctx context.Context, key string) (_ *domain.SweepReport, err error) {
	defer obs.Time(ctx, "sweep.cache.sqlite.GetReport")(&err)

	var report domain.SweepReport
	if err := s.get(ctx, `SELECT report FROM sweep_reports WHERE request_key = ?;`, key, &report); err != nil {
		return nil, fmt.Errorf("get sweep report: %w", err)
	}
	return &report, nil
}

func (s *SqliteSweepCache) PutReport(ctx context.Context, key string, r *domain.SweepReport) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("put sweep report: key must not be empty")
	}

	query := `
	INSERT OR REPLACE INTO sweep_reports (
		request_key,
		report,
		created_at
	)
	VALUES (?, ?, ?);
	`
	if err := s.put(ctx, query, key, r); err != nil {
		return fmt.Errorf("put sweep report: %w", err)
	}
	return nil
}

func (s *SqliteSweepCache) GetJob(ctx context.Context, id string) (*domain.SweepJob, error) {
	var job domain.SweepJob
	if err := s.get(ctx, `SELECT job FROM sweep_jobs WHERE id = ?;`, id, &job); err != nil {
		return nil, fmt.Errorf("get sweep job: %w", err)
	}
	return &job, nil
}

func (s *SqliteSweepCache) PutJob(ctx context.Context, job *domain.SweepJob) error {
	if job == nil || strings.TrimSpace(job.ID) == "" {
		return errors.New("put sweep job: id must not be empty")
	}

	query := `
	INSERT OR REPLACE INTO sweep_jobs (
		id,
		job,
		updated_at
	)
	VALUES (?, ?, ?);
	`
	if err := s.put(ctx, query, job.ID, job); err != nil {
		return fmt.Errorf("put sweep job: %w", err)
	}
	return nil
}

func (s *SqliteSweepCache) get(ctx context.Context, query, key string, dst any) error {
	if s.DB == nil {
		return errors.New("sweep cache: db is nil")
	}

	var payload string
	err := s.DB.QueryRowContext(ctx, query, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("key %q: %w", key, domain.ErrCacheMiss)
	}
	if err != nil {
		return fmt.Errorf("key %q: query: %w", key, err)
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return fmt.Errorf("key %q: decode: %w", key, err)
	}
	return nil
}

func (s *SqliteSweepCache) put(ctx context.Context, query, key string, v any) error {
	if s.DB == nil {
		return errors.New("sweep cache: db is nil")
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("key %q: encode: %w", key, err)
	}
	if _, err := s.DB.ExecContext(ctx, query, key, string(payload), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("key %q: %w", key, err)
	}
	return nil
}
