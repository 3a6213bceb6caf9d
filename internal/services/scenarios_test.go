package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"darkstore-sim/internal/domain"
	mockports "darkstore-sim/internal/ports/mock"
	"darkstore-sim/internal/sim"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestScenarios(t *testing.T) (*ScenarioService, *mockports.MockScenarioRepository, *SimulationService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mockports.NewMockScenarioRepository(ctrl)
	s := newTestSimulation(t, time.Hour)
	return NewScenarioService(repo, s), repo, s
}

func TestSaveCurrentFlattensRun(t *testing.T) {
	svc, repo, s := newTestScenarios(t)
	for i := 0; i < 24; i++ {
		_, err := s.Step()
		require.NoError(t, err)
	}
	want := s.Status(false).Snapshot.KPIs

	var saved *domain.Scenario
	repo.EXPECT().
		SaveScenario(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sc *domain.Scenario) error {
			saved = sc
			return nil
		})

	sc, err := svc.SaveCurrent(context.Background(), "  lunch rush ", domain.ScenarioSourceManual)
	require.NoError(t, err)
	require.Same(t, sc, saved)

	assert.NotEmpty(t, sc.ID)
	assert.Equal(t, "lunch rush", sc.Name)
	assert.Equal(t, domain.ScenarioSourceManual, sc.Source)
	assert.Equal(t, 10, sc.AgentCount)
	assert.Equal(t, sim.BuiltinUniform, sc.Profile)
	assert.InDelta(t, 120.0, sc.ClockMinutes, 1e-9)
	assert.Equal(t, want.TotalGenerated, sc.TotalGenerated)
	assert.Equal(t, want.TotalDelivered, sc.TotalDelivered)
}

func TestSaveCurrentDefaultsName(t *testing.T) {
	svc, repo, _ := newTestScenarios(t)
	repo.EXPECT().SaveScenario(gomock.Any(), gomock.Any()).Return(nil)

	sc, err := svc.SaveCurrent(context.Background(), "", domain.ScenarioSourceAutosave)
	require.NoError(t, err)
	assert.Contains(t, sc.Name, domain.ScenarioSourceAutosave)
}

func TestSaveCurrentWrapsRepoError(t *testing.T) {
	svc, repo, _ := newTestScenarios(t)
	repo.EXPECT().SaveScenario(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	_, err := svc.SaveCurrent(context.Background(), "x", domain.ScenarioSourceManual)
	assert.ErrorContains(t, err, "disk full")
}

func TestSaveProfileValidation(t *testing.T) {
	svc, repo, _ := newTestScenarios(t)

	zone := domain.DemandZone{
		Name:             "all-day",
		Kind:             domain.ZoneUniform,
		MinOrdersPerHour: 5,
		MaxOrdersPerHour: 10,
		StartHour:        0,
		EndHour:          23,
	}

	tests := map[string]domain.DemandProfile{
		"EmptyName":   {Name: "  ", Zones: []domain.DemandZone{zone}},
		"BuiltinName": {Name: sim.BuiltinHotspot, Zones: []domain.DemandZone{zone}},
		"NoZones":     {Name: "empty"},
		"BadZone":     {Name: "bad", Zones: []domain.DemandZone{{Name: "h", Kind: domain.ZoneHotspot, MaxOrdersPerHour: 1}}},
	}
	for name, p := range tests {
		t.Run(name, func(t *testing.T) {
			var cfgErr *domain.ConfigError
			assert.True(t, errors.As(svc.SaveProfile(context.Background(), p), &cfgErr))
		})
	}

	repo.EXPECT().SaveProfile(gomock.Any(), gomock.Any()).Return(nil)
	assert.NoError(t, svc.SaveProfile(context.Background(), domain.DemandProfile{Name: "weekday", Zones: []domain.DemandZone{zone}}))
}

func TestResolveProfile(t *testing.T) {
	svc, repo, _ := newTestScenarios(t)

	p, builtin, err := svc.ResolveProfile(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, p.Zones)
	assert.Equal(t, sim.BuiltinUniform, builtin)

	_, builtin, err = svc.ResolveProfile(context.Background(), sim.BuiltinHotspot)
	require.NoError(t, err)
	assert.Equal(t, sim.BuiltinHotspot, builtin)

	stored := domain.DemandProfile{Name: "weekday", Zones: []domain.DemandZone{{Name: "z", Kind: domain.ZoneUniform, MaxOrdersPerHour: 3, EndHour: 23}}}
	repo.EXPECT().GetProfile(gomock.Any(), "weekday").Return(stored, nil)
	p, builtin, err = svc.ResolveProfile(context.Background(), "weekday")
	require.NoError(t, err)
	assert.Equal(t, stored, p)
	assert.Empty(t, builtin)

	repo.EXPECT().GetProfile(gomock.Any(), "missing").Return(domain.DemandProfile{}, domain.ErrNotFound)
	_, _, err = svc.ResolveProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
