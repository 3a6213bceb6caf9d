package repositories

import (
	"encoding/json"
	"fmt"

	"darkstore-sim/internal/domain"
)

const scenarioColumns = `
	id,
	name,
	source,
	created_at,
	agent_count,
	agent_speed_kmh,
	step_minutes,
	traffic_factor,
	start_hour,
	profile,
	store_count,
	clock_minutes,
	total_generated,
	total_delivered,
	total_cancelled,
	avg_delivery_minutes,
	completion_pct,
	utilization_pct,
	avg_fatigue,
	total_distance_km`

type rowScanner interface {
	Scan(dest ...any) error
}

// scenarioArgs returns the column values after id and created_at, in
// scenarioColumns order.
func scenarioArgs(s *domain.Scenario) []any {
	return []any{
		s.Name,
		s.Source,
		s.AgentCount,
		s.AgentSpeedKmh,
		s.StepMinutes,
		s.TrafficFactor,
		s.StartHour,
		s.Profile,
		s.StoreCount,
		s.ClockMinutes,
		s.TotalGenerated,
		s.TotalDelivered,
		s.TotalCancelled,
		s.AvgDeliveryMinutes,
		s.CompletionPct,
		s.UtilizationPct,
		s.AvgFatigue,
		s.TotalDistanceKm,
	}
}

// scanScenario reads one row in scenarioColumns order. createdAt receives
// the driver-specific timestamp column.
func scanScenario(row rowScanner, createdAt any) (*domain.Scenario, error) {
	var s domain.Scenario
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Source,
		createdAt,
		&s.AgentCount,
		&s.AgentSpeedKmh,
		&s.StepMinutes,
		&s.TrafficFactor,
		&s.StartHour,
		&s.Profile,
		&s.StoreCount,
		&s.ClockMinutes,
		&s.TotalGenerated,
		&s.TotalDelivered,
		&s.TotalCancelled,
		&s.AvgDeliveryMinutes,
		&s.CompletionPct,
		&s.UtilizationPct,
		&s.AvgFatigue,
		&s.TotalDistanceKm,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func decodeProfile(name string, zones []byte) (domain.DemandProfile, error) {
	p := domain.DemandProfile{Name: name}
	if err := json.Unmarshal(zones, &p.Zones); err != nil {
		return domain.DemandProfile{}, fmt.Errorf("decode zones of profile %q: %w", name, err)
	}
	return p, nil
}
