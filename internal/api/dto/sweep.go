package dto

import "darkstore-sim/internal/domain"

// SweepRequest overrides the default sweep knobs. Zero-valued fields keep
// the defaults. StoreID selects the target among the configured stores;
// the first store is used when it is unset.
type SweepRequest struct {
	StoreID               *int    `json:"store_id" validate:"omitempty,min=1"`
	MinAgents             int     `json:"min_agents" validate:"omitempty,min=1,max=200"`
	MaxAgents             int     `json:"max_agents" validate:"omitempty,min=1,max=200,gtefield=MinAgents"`
	Repetitions           int     `json:"repetitions" validate:"omitempty,min=1,max=20"`
	HorizonMinutes        float64 `json:"horizon_minutes" validate:"omitempty,gt=0,lte=1440"`
	StepMinutes           float64 `json:"step_minutes" validate:"omitempty,gt=0,lte=60"`
	AgentSpeedKmh         float64 `json:"agent_speed_kmh" validate:"omitempty,gt=0,lte=120"`
	StartHour             *int    `json:"start_hour" validate:"omitempty,min=0,max=23"`
	Seed                  *int64  `json:"seed"`
	Profile               string  `json:"profile" validate:"omitempty,max=80,profilename"`
	SLAMinutes            float64 `json:"sla_minutes" validate:"omitempty,gt=0"`
	TargetDeliveryMinutes float64 `json:"target_delivery_minutes" validate:"omitempty,gt=0"`
	MinCompletionPct      float64 `json:"min_completion_pct" validate:"omitempty,gt=0,lte=100"`
	MinSLAPct             float64 `json:"min_sla_pct" validate:"omitempty,gt=0,lte=100"`
	HourlyRate            float64 `json:"hourly_rate" validate:"omitempty,gte=0"`
	PerKmRate             float64 `json:"per_km_rate" validate:"omitempty,gte=0"`
}

// Apply overlays the request on base. The profile name is resolved by the
// caller.
func (r SweepRequest) Apply(base domain.SweepRequest) domain.SweepRequest {
	out := base
	if r.MinAgents != 0 {
		out.MinAgents = r.MinAgents
	}
	if r.MaxAgents != 0 {
		out.MaxAgents = r.MaxAgents
	}
	if r.Repetitions != 0 {
		out.Repetitions = r.Repetitions
	}
	if r.HorizonMinutes != 0 {
		out.HorizonMinutes = r.HorizonMinutes
	}
	if r.StepMinutes != 0 {
		out.StepMinutes = r.StepMinutes
	}
	if r.AgentSpeedKmh != 0 {
		out.AgentSpeedKmh = r.AgentSpeedKmh
	}
	if r.StartHour != nil {
		out.StartHour = *r.StartHour
	}
	if r.Seed != nil {
		out.Seed = *r.Seed
	}
	if r.SLAMinutes != 0 {
		out.SLAMinutes = r.SLAMinutes
	}
	if r.TargetDeliveryMinutes != 0 {
		out.TargetDeliveryMinutes = r.TargetDeliveryMinutes
	}
	if r.MinCompletionPct != 0 {
		out.MinCompletionPct = r.MinCompletionPct
	}
	if r.MinSLAPct != 0 {
		out.MinSLAPct = r.MinSLAPct
	}
	if r.HourlyRate != 0 {
		out.HourlyRate = r.HourlyRate
	}
	if r.PerKmRate != 0 {
		out.PerKmRate = r.PerKmRate
	}
	return out
}

type SweepJobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`

	Report *domain.SweepReport `json:"report,omitempty"`
}
