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

// SQLSweepCache is a Postgres-backed store for sweep reports and async
// sweep jobs.
type SQLSweepCache struct {
	DB *sql.DB
}

func NewSQLSweepCache(db *sql.DB) *SQLSweepCache {
	return &SQLSweepCache{DB: db}
}

func (s *SQLSweepCache) GetReport(ctx context.Context, key string) (_ *domain.SweepReport, err error) {
	defer obs.Time(ctx, "sweep.cache.sql.GetReport")(&err)

	var report domain.SweepReport
	if err := s.get(ctx, `SELECT report FROM sweep_reports WHERE request_key = $1;`, key, &report); err != nil {
		return nil, fmt.Errorf("get sweep report: %w", err)
	}
	return &report, nil
}

func (s *SQLSweepCache) PutReport(ctx context.Context, key string, r *domain.SweepReport) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("put sweep report: key must not be empty")
	}

	query := `
	INSERT INTO sweep_reports (request_key, report, created_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (request_key) DO UPDATE
	SET report = EXCLUDED.report,
		created_at = EXCLUDED.created_at;
	`
	if err := s.put(ctx, query, key, r); err != nil {
		return fmt.Errorf("put sweep report: %w", err)
	}
	return nil
}

func (s *SQLSweepCache) GetJob(ctx context.Context, id string) (*domain.SweepJob, error) {
	var job domain.SweepJob
	if err := s.get(ctx, `SELECT job FROM sweep_jobs WHERE id = $1;`, id, &job); err != nil {
		return nil, fmt.Errorf("get sweep job: %w", err)
	}
	return &job, nil
}

func (s *SQLSweepCache) PutJob(ctx context.Context, job *domain.SweepJob) error {
	if job == nil || strings.TrimSpace(job.ID) == "" {
		return errors.New("put sweep job: id must not be empty")
	}

	query := `
	INSERT INTO sweep_jobs (id, job, updated_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (id) DO UPDATE
	SET job = EXCLUDED.job,
		updated_at = EXCLUDED.updated_at;
	`
	if err := s.put(ctx, query, job.ID, job); err != nil {
		return fmt.Errorf("put sweep job: %w", err)
	}
	return nil
}

func (s *SQLSweepCache) get(ctx context.Context, query, key string, dst any) error {
	if s.DB == nil {
		return errors.New("sweep cache: db is nil")
	}

	var payload []byte
	err := s.DB.QueryRowContext(ctx, query, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("key %q: %w", key, domain.ErrCacheMiss)
	}
	if err != nil {
		return fmt.Errorf("key %q: query: %w", key, err)
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("key %q: decode: %w", key, err)
	}
	return nil
}

func (s *SQLSweepCache) put(ctx context.Context, query, key string, v any) error {
	if s.DB == nil {
		return errors.New("sweep cache: db is nil")
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("key %q: encode: %w", key, err)
	}
	if _, err := s.DB.ExecContext(ctx, query, key, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("key %q: %w", key, err)
	}
	return nil
}
