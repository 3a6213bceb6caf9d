package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/platform/obs"
	"darkstore-sim/internal/ports"
	"darkstore-sim/internal/sim"

	"github.com/google/uuid"
)

// ScenarioService archives runs and manages reusable demand profiles.
type ScenarioService struct {
	repo ports.ScenarioRepository
	sim  *SimulationService
}

func NewScenarioService(repo ports.ScenarioRepository, simulation *SimulationService) *ScenarioService {
	return &ScenarioService{repo: repo, sim: simulation}
}

// NewScenario flattens parameters and statistics into an archival record.
func NewScenario(name, source string, p sim.Params, snap sim.Snapshot) *domain.Scenario {
	k := snap.KPIs
	return &domain.Scenario{
		ID:                 uuid.NewString(),
		Name:               name,
		Source:             source,
		CreatedAt:          time.Now().UTC(),
		AgentCount:         p.AgentCount,
		AgentSpeedKmh:      p.AgentSpeedKmh,
		StepMinutes:        p.StepMinutes,
		TrafficFactor:      snap.Traffic,
		StartHour:          p.StartHour,
		Profile:            profileName(p),
		StoreCount:         len(p.Stores),
		ClockMinutes:       snap.Clock,
		TotalGenerated:     k.TotalGenerated,
		TotalDelivered:     k.TotalDelivered,
		TotalCancelled:     k.TotalCancelled,
		AvgDeliveryMinutes: k.AvgDeliveryMinutes,
		CompletionPct:      k.CompletionPct,
		UtilizationPct:     k.UtilizationPct,
		AvgFatigue:         k.AvgFatigue,
		TotalDistanceKm:    k.TotalDistanceKm,
	}
}

// SaveCurrent archives the live run.
func (s *ScenarioService) SaveCurrent(ctx context.Context, name, source string) (_ *domain.Scenario, err error) {
	defer obs.Time(ctx, "scenario.SaveCurrent")(&err)

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("%s %s", source, time.Now().UTC().Format(time.DateTime))
	}

	params := s.sim.Params()
	st := s.sim.Status(false)
	sc := NewScenario(name, source, params, st.Snapshot)

	if err := s.repo.SaveScenario(ctx, sc); err != nil {
		return nil, fmt.Errorf("save scenario: %w", err)
	}
	return sc, nil
}

func (s *ScenarioService) List(ctx context.Context, limit int) ([]*domain.Scenario, error) {
	out, err := s.repo.ListScenarios(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	return out, nil
}

func (s *ScenarioService) Get(ctx context.Context, id string) (*domain.Scenario, error) {
	sc, err := s.repo.GetScenario(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get scenario %q: %w", id, err)
	}
	return sc, nil
}

// SaveProfile validates and stores a custom profile. Built-in names are
// reserved.
func (s *ScenarioService) SaveProfile(ctx context.Context, p domain.DemandProfile) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return domain.NewConfigError("profile.name", errors.New("must be non-empty"))
	}
	if _, ok := sim.LookupBuiltin(p.Name); ok {
		return domain.NewConfigError("profile.name", fmt.Errorf("%q is a built-in profile", p.Name))
	}
	if len(p.Zones) == 0 {
		return domain.NewConfigError("profile.zones", errors.New("at least one zone is required"))
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return fmt.Errorf("save profile %q: %w", p.Name, err)
	}
	return nil
}

func (s *ScenarioService) ListProfiles(ctx context.Context) ([]domain.DemandProfile, error) {
	out, err := s.repo.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

// ResolveProfile returns a stored profile, or an empty profile plus the
// builtin name when name refers to a compiled-in profile.
func (s *ScenarioService) ResolveProfile(ctx context.Context, name string) (domain.DemandProfile, string, error) {
	if name == "" {
		return domain.DemandProfile{}, sim.BuiltinUniform, nil
	}
	if _, ok := sim.LookupBuiltin(name); ok {
		return domain.DemandProfile{}, name, nil
	}
	p, err := s.repo.GetProfile(ctx, name)
	if err != nil {
		return domain.DemandProfile{}, "", fmt.Errorf("resolve profile %q: %w", name, err)
	}
	return p, "", nil
}
