package domain

import "fmt"

type AgentStatus string

const (
	AgentAvailable  AgentStatus = "available"
	AgentToStore    AgentStatus = "to_store"
	AgentAtStore    AgentStatus = "at_store"
	AgentToCustomer AgentStatus = "to_customer"
)

const (
	FatigueFresh = 1.0
	FatigueFloor = 0.5
)

// Delivery agent aggregate. Route holds the full agent->store->customer
// waypoint list while busy; StoreLeg is the index of the store waypoint,
// so the to_store segment ends at StoreLeg and the to_customer segment at
// the last waypoint. Other entities are referenced by id only.
type Agent struct {
	ID          int           `json:"id"`
	Position    Coordinates   `json:"position"`
	Status      AgentStatus   `json:"status"`
	OrderID     *int          `json:"order_id"`
	Route       []Coordinates `json:"route,omitempty"`
	StoreLeg    int           `json:"store_leg"`
	Leg         int           `json:"leg"`
	LegProgress float64       `json:"leg_progress"`

	// Minutes spent at the store for the current order.
	HandlingElapsed float64 `json:"handling_elapsed"`

	Fatigue               float64 `json:"fatigue"`
	ConsecutiveDeliveries int     `json:"consecutive_deliveries"`
	ActiveStreakMinutes   float64 `json:"active_streak_minutes"`
	IdleStreakMinutes     float64 `json:"idle_streak_minutes"`
	AvailableSince        float64 `json:"available_since"`

	TotalDistanceKm     float64 `json:"total_distance_km"`
	DeliveriesCompleted int     `json:"deliveries_completed"`
	IdleMinutes         float64 `json:"idle_minutes"`
	DeliveringMinutes   float64 `json:"delivering_minutes"`
	AtStoreMinutes      float64 `json:"at_store_minutes"`
}

func NewAgent(id int, pos Coordinates) *Agent {
	return &Agent{
		ID:       id,
		Position: pos,
		Status:   AgentAvailable,
		Fatigue:  FatigueFresh,
	}
}

func (a *Agent) IsAvailable() bool { return a.Status == AgentAvailable }

// Effective speed in km/h after fatigue and traffic.
func (a *Agent) EffectiveSpeed(baseKmh, traffic float64) float64 {
	return baseKmh * a.Fatigue * traffic
}

// Index of the waypoint that ends the segment currently being travelled.
func (a *Agent) SegmentEnd() int {
	if a.Status == AgentToStore {
		return a.StoreLeg
	}
	return len(a.Route) - 1
}

// Dispatch binds the agent to an order and sends it towards the store.
func (a *Agent) Dispatch(orderID int, route []Coordinates, storeLeg int) error {
	if a.Status != AgentAvailable {
		return fmt.Errorf("agent %d: %s -> %s: %w", a.ID, a.Status, AgentToStore, ErrInvalidTransition)
	}
	if len(route) < 2 || storeLeg < 1 || storeLeg >= len(route) {
		return fmt.Errorf("agent %d: dispatch: route of %d waypoints with store leg %d", a.ID, len(route), storeLeg)
	}
	a.Status = AgentToStore
	a.OrderID = &orderID
	a.Route = route
	a.StoreLeg = storeLeg
	a.Leg = 0
	a.LegProgress = 0
	a.HandlingElapsed = 0
	return nil
}

// ArriveAtStore snaps the agent to the store and starts the handling counter.
func (a *Agent) ArriveAtStore(store Coordinates) {
	a.Position = store
	a.Status = AgentAtStore
	a.Leg = a.StoreLeg
	a.LegProgress = 0
	a.HandlingElapsed = 0
}

// StartDelivery begins the store->customer segment.
func (a *Agent) StartDelivery() {
	a.Status = AgentToCustomer
	a.Leg = a.StoreLeg
	a.LegProgress = 0
	a.HandlingElapsed = 0
}

// CompleteDelivery snaps to the customer and frees the agent.
func (a *Agent) CompleteDelivery(customer Coordinates, now float64) {
	a.Position = customer
	a.DeliveriesCompleted++
	a.ConsecutiveDeliveries++
	a.Status = AgentAvailable
	a.OrderID = nil
	a.Route = nil
	a.StoreLeg = 0
	a.Leg = 0
	a.LegProgress = 0
	a.AvailableSince = now
}

// ActiveMinutes is time spent delivering or at a store.
func (a *Agent) ActiveMinutes() float64 {
	return a.DeliveringMinutes + a.AtStoreMinutes
}
