package sim

import (
	"errors"
	"fmt"

	"darkstore-sim/internal/domain"
)

// Fidelity selects which stages of the tick pipeline run. Reduced fidelity
// is the headless sweep configuration: a single store, availability-time
// assignment and no fatigue.
type Fidelity int

const (
	FidelityFull Fidelity = iota
	FidelityReduced
)

func (f Fidelity) String() string {
	if f == FidelityReduced {
		return "reduced"
	}
	return "full"
}

var ErrUnknownBuiltin = errors.New("unknown built-in profile")

type FatigueConfig struct {
	RecoveryIdleMinutes    float64 `json:"recovery_idle_minutes"`
	RecoveryIncrement      float64 `json:"recovery_increment"`
	DeliveryThreshold      int     `json:"delivery_threshold"`
	ActiveThresholdMinutes float64 `json:"active_threshold_minutes"`
	Decrement              float64 `json:"decrement"`
}

// TrafficConfig controls the dynamic traffic multiplier. When Dynamic is
// set the factor is redrawn uniformly from [Min, Max] every RefreshTicks.
type TrafficConfig struct {
	Dynamic      bool    `json:"dynamic"`
	RefreshTicks int     `json:"refresh_ticks"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
}

type Params struct {
	AgentCount    int                  `json:"agent_count"`
	AgentSpeedKmh float64              `json:"agent_speed_kmh"`
	StepMinutes   float64              `json:"step_minutes"`
	StartHour     int                  `json:"start_hour"`
	Stores        []domain.DarkStore   `json:"stores"`
	Region        domain.Region        `json:"region"`
	Profile       domain.DemandProfile `json:"profile"`

	// Used when Profile has no zones.
	Builtin string `json:"builtin"`

	HandlingMinutes   float64       `json:"handling_minutes"`
	WaypointSpacingKm float64       `json:"waypoint_spacing_km"`
	TrafficFactor     float64       `json:"traffic_factor"`
	Traffic           TrafficConfig `json:"traffic"`
	Fatigue           FatigueConfig `json:"fatigue"`

	// Pending orders older than this are cancelled. Zero disables.
	CancelAfterMinutes float64 `json:"cancel_after_minutes"`

	Fidelity Fidelity `json:"fidelity"`
	Seed     int64    `json:"seed"`
}

func DefaultFatigue() FatigueConfig {
	return FatigueConfig{
		RecoveryIdleMinutes:    30,
		RecoveryIncrement:      0.25,
		DeliveryThreshold:      5,
		ActiveThresholdMinutes: 180,
		Decrement:              0.15,
	}
}

func DefaultParams() Params {
	return Params{
		AgentCount:        10,
		AgentSpeedKmh:     25,
		StepMinutes:       5,
		StartHour:         9,
		Stores:            []domain.DarkStore{DefaultStore},
		Region:            DefaultRegion,
		Builtin:           BuiltinUniform,
		HandlingMinutes:   5,
		WaypointSpacingKm: 0.5,
		TrafficFactor:     1.0,
		Traffic: TrafficConfig{
			RefreshTicks: 6,
			Min:          0.6,
			Max:          1.4,
		},
		Fatigue: DefaultFatigue(),
		Seed:    1,
	}
}

// Validate rejects configurations the engine refuses to start with. Every
// returned error is a *domain.ConfigError.
func (p Params) Validate() error {
	if p.AgentCount < 1 {
		return domain.NewConfigError("agent_count", domain.ErrNoAgents)
	}
	if len(p.Stores) == 0 {
		return domain.NewConfigError("stores", domain.ErrNoStores)
	}
	seen := make(map[int]bool, len(p.Stores))
	for _, s := range p.Stores {
		if seen[s.ID] {
			return domain.NewConfigError("stores", fmt.Errorf("%w: id %d", domain.ErrDuplicateStore, s.ID))
		}
		seen[s.ID] = true
	}
	if p.AgentSpeedKmh <= 0 {
		return domain.NewConfigError("agent_speed_kmh", fmt.Errorf("%w: %g", domain.ErrInvalidSpeed, p.AgentSpeedKmh))
	}
	if p.StepMinutes <= 0 {
		return domain.NewConfigError("step_minutes", fmt.Errorf("%w: %g", domain.ErrInvalidStep, p.StepMinutes))
	}
	if p.StartHour < 0 || p.StartHour > 23 {
		return domain.NewConfigError("start_hour", fmt.Errorf("%w: %d", domain.ErrInvalidHourWindow, p.StartHour))
	}
	if p.TrafficFactor <= 0 {
		return domain.NewConfigError("traffic_factor", fmt.Errorf("%w: %g", domain.ErrInvalidTraffic, p.TrafficFactor))
	}
	if p.Traffic.Dynamic && (p.Traffic.Min <= 0 || p.Traffic.Max < p.Traffic.Min) {
		return domain.NewConfigError("traffic", fmt.Errorf("%w: [%g, %g]", domain.ErrInvalidTraffic, p.Traffic.Min, p.Traffic.Max))
	}
	if err := p.Region.Validate(); err != nil {
		return err
	}
	if len(p.Profile.Zones) == 0 {
		if _, ok := LookupBuiltin(p.Builtin); !ok {
			return domain.NewConfigError("builtin", fmt.Errorf("%w: %q", ErrUnknownBuiltin, p.Builtin))
		}
		return nil
	}
	return p.Profile.Validate()
}
