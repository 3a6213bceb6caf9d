package ports

import (
	"context"

	"darkstore-sim/internal/domain"
)

// Stores sweep reports by request key and async sweep jobs by id.
// Misses return an error wrapping domain.ErrCacheMiss.
type SweepCache interface {
	GetReport(ctx context.Context, key string) (*domain.SweepReport, error)
	PutReport(ctx context.Context, key string, r *domain.SweepReport) error

	GetJob(ctx context.Context, id string) (*domain.SweepJob, error)
	PutJob(ctx context.Context, job *domain.SweepJob) error
}
