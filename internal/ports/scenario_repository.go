package ports

import (
	"context"

	"darkstore-sim/internal/domain"
)

// Port: persistence boundary for archived scenarios and reusable demand
// profiles. Lookups of unknown ids return an error wrapping domain.ErrNotFound.
type ScenarioRepository interface {
	SaveScenario(ctx context.Context, s *domain.Scenario) error
	// Newest first. limit <= 0 returns everything.
	ListScenarios(ctx context.Context, limit int) ([]*domain.Scenario, error)
	GetScenario(ctx context.Context, id string) (*domain.Scenario, error)

	// Upserts by profile name.
	SaveProfile(ctx context.Context, p domain.DemandProfile) error
	ListProfiles(ctx context.Context) ([]domain.DemandProfile, error)
	GetProfile(ctx context.Context, name string) (domain.DemandProfile, error)
}
