package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"darkstore-sim/internal/domain"
	mockports "darkstore-sim/internal/ports/mock"
	"darkstore-sim/internal/services"
	"darkstore-sim/internal/worker"
	mockworker "darkstore-sim/internal/worker/mock"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func smallRequest() domain.SweepRequest {
	req := services.DefaultSweepRequest()
	req.MinAgents = 4
	req.MaxAgents = 5
	req.Repetitions = 1
	req.HorizonMinutes = 60
	return req
}

func sweepTask(t *testing.T, jobID string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(worker.PayloadRunSweep{JobID: jobID})
	require.NoError(t, err)
	return asynq.NewTask(worker.TaskRunSweep, payload)
}

func TestProcessTaskRunSweep(t *testing.T) {
	testCases := []struct {
		name        string
		buildStubs  func(jobs *mockports.MockSweepCache)
		checkResult func(t *testing.T, err error)
	}{
		{
			name: "QueuedJobRunsToDone",
			buildStubs: func(jobs *mockports.MockSweepCache) {
				jobs.EXPECT().
					GetJob(gomock.Any(), "job-1").
					Return(&domain.SweepJob{ID: "job-1", Status: domain.JobQueued, Request: smallRequest()}, nil)
				gomock.InOrder(
					jobs.EXPECT().
						PutJob(gomock.Any(), gomock.Any()).
						Do(func(_ context.Context, job *domain.SweepJob) {
							assert.Equal(t, domain.JobRunning, job.Status)
						}).
						Return(nil),
					jobs.EXPECT().
						PutJob(gomock.Any(), gomock.Any()).
						Do(func(_ context.Context, job *domain.SweepJob) {
							assert.Equal(t, domain.JobDone, job.Status)
							require.NotNil(t, job.Report)
							assert.Len(t, job.Report.Rows, 2)
						}).
						Return(nil),
				)
			},
			checkResult: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "InvalidRequestFailsWithoutRetry",
			buildStubs: func(jobs *mockports.MockSweepCache) {
				bad := smallRequest()
				bad.Repetitions = 0
				jobs.EXPECT().
					GetJob(gomock.Any(), "job-1").
					Return(&domain.SweepJob{ID: "job-1", Status: domain.JobQueued, Request: bad}, nil)
				gomock.InOrder(
					jobs.EXPECT().PutJob(gomock.Any(), gomock.Any()).Return(nil),
					jobs.EXPECT().
						PutJob(gomock.Any(), gomock.Any()).
						Do(func(_ context.Context, job *domain.SweepJob) {
							assert.Equal(t, domain.JobFailed, job.Status)
							assert.Contains(t, job.Error, "repetitions")
						}).
						Return(nil),
				)
			},
			checkResult: func(t *testing.T, err error) {
				require.ErrorIs(t, err, asynq.SkipRetry)
			},
		},
		{
			name: "ExpiredJobIsDropped",
			buildStubs: func(jobs *mockports.MockSweepCache) {
				jobs.EXPECT().
					GetJob(gomock.Any(), "job-1").
					Return(nil, domain.ErrCacheMiss)
			},
			checkResult: func(t *testing.T, err error) {
				require.ErrorIs(t, err, asynq.SkipRetry)
			},
		},
		{
			name: "FinishedJobIsSkipped",
			buildStubs: func(jobs *mockports.MockSweepCache) {
				jobs.EXPECT().
					GetJob(gomock.Any(), "job-1").
					Return(&domain.SweepJob{ID: "job-1", Status: domain.JobDone}, nil)
			},
			checkResult: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "CacheErrorIsRetried",
			buildStubs: func(jobs *mockports.MockSweepCache) {
				jobs.EXPECT().
					GetJob(gomock.Any(), "job-1").
					Return(nil, errors.New("connection reset"))
			},
			checkResult: func(t *testing.T, err error) {
				require.Error(t, err)
				require.NotErrorIs(t, err, asynq.SkipRetry)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			jobs := mockports.NewMockSweepCache(ctrl)
			tc.buildStubs(jobs)

			processor := worker.NewTestTaskProcessor(services.NewSweepService(nil), jobs)
			err := processor.ProcessTaskRunSweep(context.Background(), sweepTask(t, "job-1"))
			tc.checkResult(t, err)
		})
	}
}

func TestProcessTaskRunSweepBadPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	processor := worker.NewTestTaskProcessor(services.NewSweepService(nil), mockports.NewMockSweepCache(ctrl))

	err := processor.ProcessTaskRunSweep(context.Background(), asynq.NewTask(worker.TaskRunSweep, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestSubmitSweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	jobs := mockports.NewMockSweepCache(ctrl)
	distributor := mockworker.NewMockTaskDistributor(ctrl)

	var stored *domain.SweepJob
	jobs.EXPECT().
		PutJob(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *domain.SweepJob) error {
			stored = job
			return nil
		})
	distributor.EXPECT().
		DistributeTaskRunSweep(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, payload *worker.PayloadRunSweep, _ ...asynq.Option) error {
			assert.Equal(t, stored.ID, payload.JobID)
			return nil
		})

	job, err := worker.SubmitSweep(context.Background(), jobs, distributor, smallRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.JobQueued, job.Status)
	assert.NotEmpty(t, job.ID)
}

func TestSubmitSweepEnqueueFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	jobs := mockports.NewMockSweepCache(ctrl)
	distributor := mockworker.NewMockTaskDistributor(ctrl)

	gomock.InOrder(
		jobs.EXPECT().PutJob(gomock.Any(), gomock.Any()).Return(nil),
		jobs.EXPECT().
			PutJob(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, job *domain.SweepJob) {
				assert.Equal(t, domain.JobFailed, job.Status)
			}).
			Return(nil),
	)
	distributor.EXPECT().
		DistributeTaskRunSweep(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("redis unavailable"))

	_, err := worker.SubmitSweep(context.Background(), jobs, distributor, smallRequest())
	assert.ErrorContains(t, err, "redis unavailable")
}

func TestSubmitSweepRejectsInvalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	req := smallRequest()
	req.MinAgents = 0

	_, err := worker.SubmitSweep(context.Background(), mockports.NewMockSweepCache(ctrl), mockworker.NewMockTaskDistributor(ctrl), req)
	var cfgErr *domain.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}
