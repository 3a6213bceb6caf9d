package domain

import (
	"fmt"
	"time"
)

// SweepRequest configures an agent-count sweep against a single store.
// Percentages are 0..100.
type SweepRequest struct {
	Store   DarkStore     `json:"store"`
	Profile DemandProfile `json:"profile"`
	Builtin string        `json:"builtin,omitempty"`

	MinAgents      int     `json:"min_agents"`
	MaxAgents      int     `json:"max_agents"`
	Repetitions    int     `json:"repetitions"`
	HorizonMinutes float64 `json:"horizon_minutes"`
	StepMinutes    float64 `json:"step_minutes"`
	AgentSpeedKmh  float64 `json:"agent_speed_kmh"`
	StartHour      int     `json:"start_hour"`
	Seed           int64   `json:"seed"`

	SLAMinutes            float64 `json:"sla_minutes"`
	TargetDeliveryMinutes float64 `json:"target_delivery_minutes"`
	MinCompletionPct      float64 `json:"min_completion_pct"`
	MinSLAPct             float64 `json:"min_sla_pct"`
	RelaxedCompletionPct  float64 `json:"relaxed_completion_pct"`
	UtilizationLowPct     float64 `json:"utilization_low_pct"`
	UtilizationHighPct    float64 `json:"utilization_high_pct"`

	HourlyRate float64 `json:"hourly_rate"`
	PerKmRate  float64 `json:"per_km_rate"`
}

func (r SweepRequest) Validate() error {
	if r.MinAgents < 1 {
		return NewConfigError("min_agents", ErrNoAgents)
	}
	if r.MaxAgents < r.MinAgents {
		return NewConfigError("max_agents", fmt.Errorf("range [%d, %d] is empty", r.MinAgents, r.MaxAgents))
	}
	if r.Repetitions < 1 {
		return NewConfigError("repetitions", fmt.Errorf("must be at least 1, got %d", r.Repetitions))
	}
	if r.HorizonMinutes <= 0 {
		return NewConfigError("horizon_minutes", fmt.Errorf("must be positive, got %g", r.HorizonMinutes))
	}
	if r.StepMinutes <= 0 {
		return NewConfigError("step_minutes", ErrInvalidStep)
	}
	if r.AgentSpeedKmh <= 0 {
		return NewConfigError("agent_speed_kmh", ErrInvalidSpeed)
	}
	if r.UtilizationHighPct < r.UtilizationLowPct {
		return NewConfigError("utilization_band", fmt.Errorf("[%g, %g] is empty", r.UtilizationLowPct, r.UtilizationHighPct))
	}
	return r.Profile.Validate()
}

// One row per candidate agent count. CostPerOrder is nil when nothing was
// delivered.
type SweepRow struct {
	AgentCount         int      `json:"agent_count"`
	AvgGenerated       float64  `json:"avg_generated"`
	AvgDelivered       float64  `json:"avg_delivered"`
	AvgDeliveryMinutes float64  `json:"avg_delivery_minutes"`
	AvgUtilizationPct  float64  `json:"avg_utilization_pct"`
	SLAPct             float64  `json:"sla_pct"`
	CompletionPct      float64  `json:"completion_pct"`
	AvgDistanceKm      float64  `json:"avg_distance_km"`
	CostPerOrder       *float64 `json:"cost_per_order"`
	InBand             bool     `json:"in_band"`
	Recommended        bool     `json:"recommended"`
}

const (
	RelaxNone       = ""
	RelaxCompletion = "completion"
	RelaxAll        = "all"
)

type SweepReport struct {
	Request     SweepRequest `json:"request"`
	Rows        []SweepRow   `json:"rows"`
	Recommended int          `json:"recommended_agents"`
	Relaxed     string       `json:"relaxed,omitempty"`
	ElapsedMs   int64        `json:"elapsed_ms"`
	CreatedAt   time.Time    `json:"created_at"`
}

type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// SweepJob tracks an asynchronous sweep.
type SweepJob struct {
	ID        string       `json:"id"`
	Status    JobStatus    `json:"status"`
	Error     string       `json:"error,omitempty"`
	Request   SweepRequest `json:"request"`
	Report    *SweepReport `json:"report,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
