package domain

import "time"

// Scenario is the flat archival record of a run: the parameters it was
// configured with and the statistics at the time it was saved.
type Scenario struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`

	AgentCount    int     `json:"agent_count"`
	AgentSpeedKmh float64 `json:"agent_speed_kmh"`
	StepMinutes   float64 `json:"step_minutes"`
	TrafficFactor float64 `json:"traffic_factor"`
	StartHour     int     `json:"start_hour"`
	Profile       string  `json:"profile"`
	StoreCount    int     `json:"store_count"`

	ClockMinutes       float64 `json:"clock_minutes"`
	TotalGenerated     int     `json:"total_generated"`
	TotalDelivered     int     `json:"total_delivered"`
	TotalCancelled     int     `json:"total_cancelled"`
	AvgDeliveryMinutes float64 `json:"avg_delivery_minutes"`
	CompletionPct      float64 `json:"completion_pct"`
	UtilizationPct     float64 `json:"utilization_pct"`
	AvgFatigue         float64 `json:"avg_fatigue"`
	TotalDistanceKm    float64 `json:"total_distance_km"`
}

const (
	ScenarioSourceManual   = "manual"
	ScenarioSourceAutosave = "autosave"
)
