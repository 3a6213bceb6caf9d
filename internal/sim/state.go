package sim

import "darkstore-sim/internal/domain"

// State owns every agent and order of a run. Agents and orders are stored
// arena-style: the entity with id n lives at index n-1 and is never removed.
type State struct {
	Clock   float64
	Tick    int
	Traffic float64
	Agents  []*domain.Agent
	Orders  []*domain.Order

	TotalGenerated     int
	TotalDelivered     int
	TotalCancelled     int
	DeliveryMinutesSum float64
	TotalDistanceKm    float64
}

func (s *State) Agent(id int) *domain.Agent {
	if id < 1 || id > len(s.Agents) {
		return nil
	}
	return s.Agents[id-1]
}

func (s *State) Order(id int) *domain.Order {
	if id < 1 || id > len(s.Orders) {
		return nil
	}
	return s.Orders[id-1]
}

type KPIs struct {
	TotalGenerated     int                        `json:"total_generated"`
	TotalDelivered     int                        `json:"total_delivered"`
	TotalCancelled     int                        `json:"total_cancelled"`
	Pending            int                        `json:"pending"`
	InFlight           int                        `json:"in_flight"`
	AvgDeliveryMinutes float64                    `json:"avg_delivery_minutes"`
	CompletionPct      float64                    `json:"completion_pct"`
	TotalDistanceKm    float64                    `json:"total_distance_km"`
	AvgFatigue         float64                    `json:"avg_fatigue"`
	UtilizationPct     float64                    `json:"utilization_pct"`
	AgentsByStatus     map[domain.AgentStatus]int `json:"agents_by_status"`
}

// Snapshot is a copy of the state safe to hand to other goroutines.
type Snapshot struct {
	Tick      int            `json:"tick"`
	Clock     float64        `json:"clock"`
	TimeOfDay string         `json:"time_of_day"`
	Traffic   float64        `json:"traffic"`
	Agents    []domain.Agent `json:"agents"`
	Orders    []domain.Order `json:"orders,omitempty"`
	KPIs      KPIs           `json:"kpis"`
}

func (s *State) KPIs() KPIs {
	k := KPIs{
		TotalGenerated:  s.TotalGenerated,
		TotalDelivered:  s.TotalDelivered,
		TotalCancelled:  s.TotalCancelled,
		TotalDistanceKm: s.TotalDistanceKm,
		AgentsByStatus: map[domain.AgentStatus]int{
			domain.AgentAvailable:  0,
			domain.AgentToStore:    0,
			domain.AgentAtStore:    0,
			domain.AgentToCustomer: 0,
		},
	}

	for _, o := range s.Orders {
		switch o.Status {
		case domain.OrderPending:
			k.Pending++
		case domain.OrderAssigned, domain.OrderPickedUp:
			k.InFlight++
		}
	}

	if s.TotalDelivered > 0 {
		k.AvgDeliveryMinutes = s.DeliveryMinutesSum / float64(s.TotalDelivered)
	}
	if s.TotalGenerated > 0 {
		k.CompletionPct = 100 * float64(s.TotalDelivered) / float64(s.TotalGenerated)
	}

	if n := len(s.Agents); n > 0 {
		var fatigue, active float64
		for _, a := range s.Agents {
			fatigue += a.Fatigue
			active += a.ActiveMinutes()
			k.AgentsByStatus[a.Status]++
		}
		k.AvgFatigue = fatigue / float64(n)
		if s.Clock > 0 {
			k.UtilizationPct = 100 * active / (float64(n) * s.Clock)
		}
	}
	return k
}

// Snapshot copies agents and, when includeOrders is set, orders. Route
// slices and timestamp pointers are replaced rather than mutated in place,
// so struct copies do not alias live state.
func (s *State) Snapshot(startHour int, includeOrders bool) Snapshot {
	snap := Snapshot{
		Tick:      s.Tick,
		Clock:     s.Clock,
		TimeOfDay: TimeOfDay(startHour, s.Clock),
		Traffic:   s.Traffic,
		Agents:    make([]domain.Agent, len(s.Agents)),
		KPIs:      s.KPIs(),
	}
	for i, a := range s.Agents {
		snap.Agents[i] = *a
	}
	if includeOrders {
		snap.Orders = make([]domain.Order, len(s.Orders))
		for i, o := range s.Orders {
			snap.Orders[i] = *o
		}
	}
	return snap
}
