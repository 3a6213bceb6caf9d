package cache

import (
	"context"
	"testing"
	"time"

	"darkstore-sim/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*RedisSweepCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisSweepCache(client, time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func testReport() *domain.SweepReport {
	cost := 41.5
	return &domain.SweepReport{
		Rows: []domain.SweepRow{
			{AgentCount: 4, CompletionPct: 88, CostPerOrder: &cost},
			{AgentCount: 5, CompletionPct: 97, Recommended: true},
		},
		Recommended: 5,
		ElapsedMs:   120,
		CreatedAt:   time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestRedisSweepCacheReports(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()

	_, err := c.GetReport(ctx, "abc")
	require.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, c.PutReport(ctx, "abc", testReport()))

	got, err := c.GetReport(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, testReport(), got)
	assert.Equal(t, time.Hour, mr.TTL(sweepReportKeyPrefix+"abc"))

	mr.FastForward(2 * time.Hour)
	_, err = c.GetReport(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisSweepCacheJobs(t *testing.T) {
	c, _ := newTestRedisCache(t)
	ctx := context.Background()

	job := &domain.SweepJob{ID: "job-1", Status: domain.JobQueued}
	require.NoError(t, c.PutJob(ctx, job))

	job.Status = domain.JobDone
	job.Report = testReport()
	require.NoError(t, c.PutJob(ctx, job))

	got, err := c.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobDone, got.Status)
	assert.Equal(t, 5, got.Report.Recommended)

	assert.Error(t, c.PutJob(ctx, &domain.SweepJob{}))

	_, err = c.GetJob(ctx, "job-2")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisSweepCacheCorruptValue(t *testing.T) {
	c, mr := newTestRedisCache(t)
	require.NoError(t, mr.Set(sweepReportKeyPrefix+"bad", "{not json"))

	_, err := c.GetReport(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCacheMiss)
}
