package sim

import (
	"math"

	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/geo"

	"github.com/rs/zerolog"
)

// Speeds below this are treated as standing still.
const minEffectiveSpeedKmh = 1e-6

type Assignment struct {
	OrderID    int     `json:"order_id"`
	AgentID    int     `json:"agent_id"`
	StoreID    int     `json:"store_id"`
	EtaMinutes float64 `json:"eta_minutes"`
}

// NearestStore returns the store closest to p. The first store wins ties.
// It is called once per order at dispatch; the chosen position becomes the
// route's store waypoint, which movement snaps to on arrival.
func NearestStore(stores []domain.DarkStore, p domain.Coordinates) (domain.DarkStore, bool) {
	best := -1
	bestKm := math.Inf(1)
	for i, s := range stores {
		if d := geo.DistanceKm(s.Position, p); best < 0 || d < bestKm {
			best, bestKm = i, d
		}
	}
	if best < 0 {
		return domain.DarkStore{}, false
	}
	return stores[best], true
}

// TravelMinutes converts a distance to minutes at the given speed. It is
// +Inf when the agent is effectively stationary.
func TravelMinutes(distKm, speedKmh float64) float64 {
	if speedKmh < minEffectiveSpeedKmh {
		return math.Inf(1)
	}
	return distKm / speedKmh * 60
}

// EstimateDeliveryMinutes is agent->store + handling + store->customer at the
// agent's current effective speed.
func EstimateDeliveryMinutes(a *domain.Agent, store, customer domain.Coordinates, p Params, traffic float64) float64 {
	speed := a.EffectiveSpeed(p.AgentSpeedKmh, traffic)
	return TravelMinutes(geo.DistanceKm(a.Position, store), speed) +
		p.HandlingMinutes +
		TravelMinutes(geo.DistanceKm(store, customer), speed)
}

// BuildRoute joins the agent->store and store->customer paths, sharing the
// store waypoint. storeLeg is the index of that waypoint.
func BuildRoute(from, store, customer domain.Coordinates, spacingKm float64) (route []domain.Coordinates, storeLeg int) {
	toStore := geo.InterpolatePath(from, store, spacingKm)
	toCustomer := geo.InterpolatePath(store, customer, spacingKm)

	route = make([]domain.Coordinates, 0, len(toStore)+len(toCustomer)-1)
	route = append(route, toStore...)
	route = append(route, toCustomer[1:]...)
	return route, len(toStore) - 1
}

// AssignPending binds pending orders to available agents in order-list
// order. Full fidelity ranks agents by estimated delivery minutes; reduced
// fidelity takes the agent idle the longest. Ties go to the lowest agent
// index. Matched agents leave the pool for the rest of the tick.
func AssignPending(s *State, p Params, logger zerolog.Logger) []Assignment {
	pool := make([]*domain.Agent, 0, len(s.Agents))
	for _, a := range s.Agents {
		if a.IsAvailable() {
			pool = append(pool, a)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	var out []Assignment
	for _, o := range s.Orders {
		if len(pool) == 0 {
			break
		}
		if o.Status != domain.OrderPending {
			continue
		}

		store, ok := NearestStore(p.Stores, o.Position)
		if !ok {
			return out
		}

		bestIdx := -1
		bestEta := math.Inf(1)
		for i, a := range pool {
			eta := EstimateDeliveryMinutes(a, store.Position, o.Position, p, s.Traffic)
			var better bool
			if p.Fidelity == FidelityReduced {
				better = bestIdx < 0 || a.AvailableSince < pool[bestIdx].AvailableSince
			} else {
				better = bestIdx < 0 || eta < bestEta
			}
			if better {
				bestIdx, bestEta = i, eta
			}
		}

		a := pool[bestIdx]
		route, storeLeg := BuildRoute(a.Position, store.Position, o.Position, p.WaypointSpacingKm)
		if err := a.Dispatch(o.ID, route, storeLeg); err != nil {
			logger.Error().Err(err).Int("order_id", o.ID).Msg("dispatch failed")
			continue
		}
		if err := o.Assign(a.ID, store.ID); err != nil {
			logger.Error().Err(err).Int("agent_id", a.ID).Msg("dispatch failed")
			continue
		}

		logger.Debug().
			Int("order_id", o.ID).
			Int("agent_id", a.ID).
			Int("store_id", store.ID).
			Float64("eta_min", bestEta).
			Msg("order assigned")

		out = append(out, Assignment{OrderID: o.ID, AgentID: a.ID, StoreID: store.ID, EtaMinutes: bestEta})
		pool = append(pool[:bestIdx], pool[bestIdx+1:]...)
	}
	return out
}
