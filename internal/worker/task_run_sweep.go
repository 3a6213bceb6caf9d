package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/ports"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

const (
	TaskRunSweep = "sweep:run"
)

// PayloadRunSweep names a job stored in the sweep cache; the request
// itself travels with the job record.
type PayloadRunSweep struct {
	JobID string `json:"job_id"`
}

func (d *RedisTaskDistributor) DistributeTaskRunSweep(
	ctx context.Context,
	payload *PayloadRunSweep,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(TaskRunSweep, jsonPayload, opts...)
	info, err := d.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue task: %w", err)
	}

	log.Info().
		Str("type", task.Type()).
		Str("queue", info.Queue).
		Int("max_retry", info.MaxRetry).
		Str("job_id", payload.JobID).
		Msg("enqueued sweep task")

	return nil
}

// SubmitSweep validates req, records a queued job and enqueues it.
func SubmitSweep(ctx context.Context, jobs ports.SweepCache, d TaskDistributor, req domain.SweepRequest) (*domain.SweepJob, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("submit sweep: %w", err)
	}

	now := time.Now().UTC()
	job := &domain.SweepJob{
		ID:        uuid.NewString(),
		Status:    domain.JobQueued,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := jobs.PutJob(ctx, job); err != nil {
		return nil, fmt.Errorf("submit sweep: %w", err)
	}

	opts := []asynq.Option{
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(15 * time.Minute),
	}
	if err := d.DistributeTaskRunSweep(ctx, &PayloadRunSweep{JobID: job.ID}, opts...); err != nil {
		job.Status = domain.JobFailed
		job.Error = err.Error()
		job.UpdatedAt = time.Now().UTC()
		if putErr := jobs.PutJob(ctx, job); putErr != nil {
			log.Warn().Err(putErr).Str("job_id", job.ID).Msg("mark sweep job failed")
		}
		return nil, fmt.Errorf("submit sweep: %w", err)
	}

	return job, nil
}

func (p *RedisTaskProcessor) ProcessTaskRunSweep(ctx context.Context, task *asynq.Task) error {
	var payload PayloadRunSweep
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", asynq.SkipRetry)
	}

	job, err := p.jobs.GetJob(ctx, payload.JobID)
	if errors.Is(err, domain.ErrCacheMiss) {
		log.Warn().Str("job_id", payload.JobID).Msg("sweep job expired before processing")
		return fmt.Errorf("get sweep job %s: %w", payload.JobID, asynq.SkipRetry)
	}
	if err != nil {
		return fmt.Errorf("get sweep job %s: %w", payload.JobID, err)
	}
	if job.Status == domain.JobDone || job.Status == domain.JobFailed {
		log.Info().Str("job_id", job.ID).Str("status", string(job.Status)).Msg("sweep job already finished, skip")
		return nil
	}

	log.Info().
		Str("type", task.Type()).
		Str("job_id", job.ID).
		Int("min_agents", job.Request.MinAgents).
		Int("max_agents", job.Request.MaxAgents).
		Msg("processing sweep task")

	job.Status = domain.JobRunning
	job.UpdatedAt = time.Now().UTC()
	if err := p.jobs.PutJob(ctx, job); err != nil {
		return fmt.Errorf("mark sweep job running: %w", err)
	}

	report, err := p.sweeps.Run(ctx, job.Request)
	if err != nil {
		var cfgErr *domain.ConfigError
		if !errors.As(err, &cfgErr) {
			// interrupted; put it back for the retry
			job.Status = domain.JobQueued
			job.UpdatedAt = time.Now().UTC()
			if putErr := p.jobs.PutJob(context.WithoutCancel(ctx), job); putErr != nil {
				log.Warn().Err(putErr).Str("job_id", job.ID).Msg("requeue sweep job")
			}
			return fmt.Errorf("run sweep job %s: %w", job.ID, err)
		}

		job.Status = domain.JobFailed
		job.Error = err.Error()
		job.UpdatedAt = time.Now().UTC()
		if putErr := p.jobs.PutJob(ctx, job); putErr != nil {
			return fmt.Errorf("mark sweep job failed: %w", putErr)
		}
		return fmt.Errorf("run sweep job %s: %v: %w", job.ID, err, asynq.SkipRetry)
	}

	job.Status = domain.JobDone
	job.Report = report
	job.UpdatedAt = time.Now().UTC()
	if err := p.jobs.PutJob(ctx, job); err != nil {
		return fmt.Errorf("store sweep job result: %w", err)
	}

	log.Info().
		Str("job_id", job.ID).
		Int("recommended", report.Recommended).
		Msg("sweep job done")

	return nil
}
