package sim

import (
	"context"
	"fmt"
	"math"
)

// RunSummary aggregates one headless run.
type RunSummary struct {
	AgentCount      int       `json:"agent_count"`
	HorizonMinutes  float64   `json:"horizon_minutes"`
	Generated       int       `json:"generated"`
	Delivered       int       `json:"delivered"`
	Cancelled       int       `json:"cancelled"`
	DeliveryMinutes []float64 `json:"delivery_minutes"`
	DistanceKm      float64   `json:"distance_km"`
	ActiveMinutes   float64   `json:"active_minutes"`
}

func (r RunSummary) AvgDeliveryMinutes() float64 {
	if len(r.DeliveryMinutes) == 0 {
		return 0
	}
	sum := 0.0
	for _, d := range r.DeliveryMinutes {
		sum += d
	}
	return sum / float64(len(r.DeliveryMinutes))
}

// Utilization is active time over available agent time, in [0, 1].
func (r RunSummary) Utilization() float64 {
	if r.AgentCount == 0 || r.HorizonMinutes <= 0 {
		return 0
	}
	return r.ActiveMinutes / (float64(r.AgentCount) * r.HorizonMinutes)
}

// RunHeadless steps a fresh engine until horizonMinutes have elapsed,
// checking ctx between ticks.
func RunHeadless(ctx context.Context, p Params, horizonMinutes float64) (RunSummary, error) {
	e, err := NewEngine(p)
	if err != nil {
		return RunSummary{}, fmt.Errorf("run headless: %w", err)
	}

	sum := RunSummary{AgentCount: p.AgentCount, HorizonMinutes: horizonMinutes}
	ticks := int(math.Ceil(horizonMinutes / p.StepMinutes))
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return RunSummary{}, fmt.Errorf("run headless: tick %d: %w", i, err)
		}
		res := e.Tick()
		for _, d := range res.Delivered {
			sum.DeliveryMinutes = append(sum.DeliveryMinutes, d.DeliveryMinutes)
		}
	}

	s := e.State()
	sum.Generated = s.TotalGenerated
	sum.Delivered = s.TotalDelivered
	sum.Cancelled = s.TotalCancelled
	sum.DistanceKm = s.TotalDistanceKm
	for _, a := range s.Agents {
		sum.ActiveMinutes += a.ActiveMinutes()
	}
	return sum, nil
}
