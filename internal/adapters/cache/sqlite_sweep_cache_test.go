package cache

import (
	"context"
	"database/sql"
	"testing"

	"darkstore-sim/internal/adapters/repositories"
	"darkstore-sim/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestSqliteSweepCache(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repositories.InitSchema(db))

	c := NewSqliteSweepCache(db)
	ctx := context.Background()

	_, err = c.GetReport(ctx, "k")
	require.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, c.PutReport(ctx, "k", testReport()))
	require.NoError(t, c.PutReport(ctx, "k", testReport()))
	got, err := c.GetReport(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, testReport(), got)

	assert.Error(t, c.PutReport(ctx, " ", testReport()))

	require.NoError(t, c.PutJob(ctx, &domain.SweepJob{ID: "j", Status: domain.JobRunning}))
	job, err := c.GetJob(ctx, "j")
	require.NoError(t, err)
	assert.Equal(t, domain.JobRunning, job.Status)

	_, err = c.GetJob(ctx, "other")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}
