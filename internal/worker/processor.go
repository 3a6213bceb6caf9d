package worker

import (
	"context"
	"time"

	"darkstore-sim/internal/ports"
	"darkstore-sim/internal/services"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

type TaskProcessor interface {
	Start() error
	Shutdown()
	ProcessTaskRunSweep(ctx context.Context, task *asynq.Task) error
}

type RedisTaskProcessor struct {
	server *asynq.Server
	sweeps *services.SweepService
	jobs   ports.SweepCache
}

func NewRedisTaskProcessor(
	redisOpt asynq.RedisClientOpt,
	sweeps *services.SweepService,
	jobs ports.SweepCache,
) *RedisTaskProcessor {
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			// sweeps are CPU bound; keep them from starving the tick driver
			Concurrency: 2,
			Queues: map[string]int{
				QueueCritical: 10,
				QueueDefault:  5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).
					Bytes("payload", task.Payload()).Msg("process task failed")
			}),
			Logger:          NewLogger(),
			ShutdownTimeout: 10 * time.Second,
		},
	)

	return &RedisTaskProcessor{
		server: server,
		sweeps: sweeps,
		jobs:   jobs,
	}
}

// NewTestTaskProcessor builds a processor without a Redis connection.
func NewTestTaskProcessor(sweeps *services.SweepService, jobs ports.SweepCache) *RedisTaskProcessor {
	return &RedisTaskProcessor{
		sweeps: sweeps,
		jobs:   jobs,
	}
}

func (processor *RedisTaskProcessor) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskRunSweep, processor.ProcessTaskRunSweep)

	return processor.server.Start(mux)
}

func (processor *RedisTaskProcessor) Shutdown() {
	processor.server.Shutdown()
}
