package services

import (
	"context"
	"errors"
	"testing"

	"darkstore-sim/internal/domain"
	mockports "darkstore-sim/internal/ports/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func smallSweep() domain.SweepRequest {
	req := DefaultSweepRequest()
	req.MinAgents = 5
	req.MaxAgents = 8
	req.Repetitions = 2
	req.HorizonMinutes = 120
	return req
}

func TestRunSweepRowPerAgentCount(t *testing.T) {
	report, err := RunSweep(context.Background(), smallSweep())
	require.NoError(t, err)

	require.Len(t, report.Rows, 4)
	recommended := 0
	for i, row := range report.Rows {
		assert.Equal(t, 5+i, row.AgentCount)
		assert.LessOrEqual(t, row.CompletionPct, 100.0)
		assert.LessOrEqual(t, row.AvgDelivered, row.AvgGenerated)
		assert.GreaterOrEqual(t, row.AvgUtilizationPct, 0.0)
		assert.LessOrEqual(t, row.AvgUtilizationPct, 100.0)
		if row.Recommended {
			recommended++
			assert.Equal(t, row.AgentCount, report.Recommended)
		}
	}
	assert.Equal(t, 1, recommended)
}

func TestRunSweepDeterministic(t *testing.T) {
	a, err := RunSweep(context.Background(), smallSweep())
	require.NoError(t, err)
	b, err := RunSweep(context.Background(), smallSweep())
	require.NoError(t, err)

	assert.Equal(t, a.Rows, b.Rows)
}

func TestRunSweepRejectsBadRequest(t *testing.T) {
	req := smallSweep()
	req.MaxAgents = 2

	_, err := RunSweep(context.Background(), req)
	var cfgErr *domain.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestRunSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunSweep(ctx, smallSweep())
	assert.ErrorIs(t, err, context.Canceled)
}

func cost(v float64) *float64 { return &v }

func TestRecommend(t *testing.T) {
	req := DefaultSweepRequest() // completion>=90, sla>=80, target<=30, relaxed 75, band 60..85

	tests := map[string]struct {
		rows        []domain.SweepRow
		wantAgents  int
		wantRelaxed string
	}{
		"CheapestQualifying": {
			rows: []domain.SweepRow{
				{AgentCount: 4, CompletionPct: 70, SLAPct: 90, AvgDeliveryMinutes: 25, CostPerOrder: cost(10)},
				{AgentCount: 5, CompletionPct: 95, SLAPct: 90, AvgDeliveryMinutes: 25, CostPerOrder: cost(40)},
				{AgentCount: 6, CompletionPct: 98, SLAPct: 95, AvgDeliveryMinutes: 22, CostPerOrder: cost(45)},
			},
			wantAgents:  5,
			wantRelaxed: domain.RelaxNone,
		},
		"TieGoesToBandThenMidpoint": {
			rows: []domain.SweepRow{
				{AgentCount: 5, CompletionPct: 95, SLAPct: 90, AvgDeliveryMinutes: 25, CostPerOrder: cost(40.001), AvgUtilizationPct: 90},
				{AgentCount: 6, CompletionPct: 95, SLAPct: 90, AvgDeliveryMinutes: 25, CostPerOrder: cost(40.004), AvgUtilizationPct: 62, InBand: true},
				{AgentCount: 7, CompletionPct: 95, SLAPct: 90, AvgDeliveryMinutes: 25, CostPerOrder: cost(40.002), AvgUtilizationPct: 73, InBand: true},
			},
			wantAgents:  7,
			wantRelaxed: domain.RelaxNone,
		},
		"RelaxCompletion": {
			rows: []domain.SweepRow{
				{AgentCount: 3, CompletionPct: 60, SLAPct: 90, AvgDeliveryMinutes: 25, CostPerOrder: cost(10)},
				{AgentCount: 4, CompletionPct: 80, SLAPct: 90, AvgDeliveryMinutes: 25, CostPerOrder: cost(20)},
			},
			wantAgents:  4,
			wantRelaxed: domain.RelaxCompletion,
		},
		"ConsiderAll": {
			rows: []domain.SweepRow{
				{AgentCount: 3, CompletionPct: 10, SLAPct: 10, AvgDeliveryMinutes: 90, CostPerOrder: cost(30)},
				{AgentCount: 4, CompletionPct: 20, SLAPct: 10, AvgDeliveryMinutes: 80, CostPerOrder: cost(25)},
				{AgentCount: 5},
			},
			wantAgents:  4,
			wantRelaxed: domain.RelaxAll,
		},
		"UndefinedCostRanksLast": {
			rows: []domain.SweepRow{
				{AgentCount: 1},
				{AgentCount: 2, CostPerOrder: cost(500)},
			},
			wantAgents:  2,
			wantRelaxed: domain.RelaxAll,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			idx, relaxed := Recommend(tt.rows, req)
			assert.Equal(t, tt.wantAgents, tt.rows[idx].AgentCount)
			assert.Equal(t, tt.wantRelaxed, relaxed)
		})
	}
}

func TestCostPerOrder(t *testing.T) {
	req := DefaultSweepRequest()
	req.HorizonMinutes = 120
	req.HourlyRate = 100
	req.PerKmRate = 5

	assert.Nil(t, CostPerOrder(req, 4, 50, 0))

	got := CostPerOrder(req, 4, 50, 10)
	require.NotNil(t, got)
	// (4 agents * 2 h * 100 + 50 km * 5) / 10
	assert.InDelta(t, 105.0, *got, 1e-9)
}

func TestSweepServiceUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mockports.NewMockSweepCache(ctrl)
	req := smallSweep()
	key, err := SweepKey(req)
	require.NoError(t, err)

	cached := &domain.SweepReport{Recommended: 6}
	cache.EXPECT().GetReport(gomock.Any(), key).Return(cached, nil)

	got, err := NewSweepService(cache).Run(context.Background(), req)
	require.NoError(t, err)
	assert.Same(t, cached, got)
}

func TestSweepServiceFillsCacheOnMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mockports.NewMockSweepCache(ctrl)
	req := smallSweep()
	req.MaxAgents = 5
	key, err := SweepKey(req)
	require.NoError(t, err)

	cache.EXPECT().GetReport(gomock.Any(), key).Return(nil, domain.ErrCacheMiss)
	cache.EXPECT().PutReport(gomock.Any(), key, gomock.Any()).Return(errors.New("redis down"))

	got, err := NewSweepService(cache).Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Recommended)
}

func TestSweepKeyStable(t *testing.T) {
	a, err := SweepKey(smallSweep())
	require.NoError(t, err)
	b, err := SweepKey(smallSweep())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other := smallSweep()
	other.Seed = 99
	c, err := SweepKey(other)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
