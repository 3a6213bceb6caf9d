package sim

import (
	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/geo"

	"github.com/rs/zerolog"
)

type Delivery struct {
	OrderID         int                `json:"order_id"`
	AgentID         int                `json:"agent_id"`
	Position        domain.Coordinates `json:"position"`
	DeliveryMinutes float64            `json:"delivery_minutes"`
}

type MovementResult struct {
	Delivered  []Delivery
	Stalled    []int
	DistanceKm float64
}

// MoveAgents advances every agent by one step. now is the clock at the end
// of the step and is used for all timestamps stamped in it.
func MoveAgents(s *State, p Params, now float64, logger zerolog.Logger) MovementResult {
	var res MovementResult

	for _, a := range s.Agents {
		switch a.Status {
		case domain.AgentAvailable:
			a.IdleMinutes += p.StepMinutes

		case domain.AgentAtStore:
			a.AtStoreMinutes += p.StepMinutes
			a.HandlingElapsed += p.StepMinutes
			if a.HandlingElapsed >= p.HandlingMinutes {
				if o := s.Order(orderID(a)); o != nil {
					if err := o.PickUp(); err != nil {
						logger.Error().Err(err).Int("agent_id", a.ID).Msg("pickup failed")
					}
				}
				a.StartDelivery()
			}

		case domain.AgentToStore, domain.AgentToCustomer:
			a.DeliveringMinutes += p.StepMinutes

			speed := a.EffectiveSpeed(p.AgentSpeedKmh, s.Traffic)
			if speed < minEffectiveSpeedKmh {
				logger.Warn().
					Int("agent_id", a.ID).
					Float64("fatigue", a.Fatigue).
					Float64("traffic", s.Traffic).
					Msg("agent stalled, effective speed near zero")
				res.Stalled = append(res.Stalled, a.ID)
				continue
			}

			moved := walk(a, speed*p.StepMinutes/60)
			a.TotalDistanceKm += moved
			res.DistanceKm += moved

			if a.Leg < a.SegmentEnd() {
				continue
			}
			if d, ok := arrive(s, a, now, logger); ok {
				res.Delivered = append(res.Delivered, d)
			}
		}
	}
	return res
}

// walk consumes budgetKm along the current segment and returns the
// distance actually travelled.
func walk(a *domain.Agent, budgetKm float64) float64 {
	end := a.SegmentEnd()
	moved := 0.0

	for budgetKm > 0 && a.Leg < end {
		from, to := a.Route[a.Leg], a.Route[a.Leg+1]
		legKm := geo.DistanceKm(from, to)
		remaining := legKm * (1 - a.LegProgress)

		if budgetKm >= remaining {
			budgetKm -= remaining
			moved += remaining
			a.Leg++
			a.LegProgress = 0
			a.Position = to
			continue
		}

		a.LegProgress += budgetKm / legKm
		a.Position = geo.Lerp(from, to, a.LegProgress)
		moved += budgetKm
		budgetKm = 0
	}
	return moved
}

func arrive(s *State, a *domain.Agent, now float64, logger zerolog.Logger) (Delivery, bool) {
	o := s.Order(orderID(a))
	if o == nil {
		logger.Error().Int("agent_id", a.ID).Msg("busy agent without order")
		return Delivery{}, false
	}

	if a.Status == domain.AgentToStore {
		// the store waypoint is the store chosen at dispatch
		a.ArriveAtStore(a.Route[a.StoreLeg])
		if err := o.ArriveAtStore(now); err != nil {
			logger.Error().Err(err).Int("agent_id", a.ID).Msg("store arrival failed")
		}
		return Delivery{}, false
	}

	a.CompleteDelivery(o.Position, now)
	if err := o.Deliver(now); err != nil {
		logger.Error().Err(err).Int("agent_id", a.ID).Msg("delivery failed")
		return Delivery{}, false
	}

	return Delivery{
		OrderID:         o.ID,
		AgentID:         a.ID,
		Position:        o.Position,
		DeliveryMinutes: *o.DeliveryMinutes,
	}, true
}

func orderID(a *domain.Agent) int {
	if a.OrderID == nil {
		return 0
	}
	return *a.OrderID
}
