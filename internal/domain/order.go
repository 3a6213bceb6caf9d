package domain

import "fmt"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderAssigned  OrderStatus = "assigned"
	OrderPickedUp  OrderStatus = "picked_up"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Represents a single customer order placed inside the service region.
// Timestamps are simulation minutes and are populated exactly once, at the
// tick in which the corresponding transition happens.
type Order struct {
	ID                int         `json:"id"`
	Zone              string      `json:"zone,omitempty"`
	Position          Coordinates `json:"position"`
	PlacedAt          float64     `json:"placed_at"`
	Status            OrderStatus `json:"status"`
	AgentID           *int        `json:"agent_id"`
	StoreID           *int        `json:"store_id"`
	StoreArrivalAt    *float64    `json:"store_arrival_at"`
	CustomerArrivalAt *float64    `json:"customer_arrival_at"`
	DeliveryMinutes   *float64    `json:"delivery_minutes"`
}

func NewOrder(id int, zone string, pos Coordinates, placedAt float64) *Order {
	return &Order{
		ID:       id,
		Zone:     zone,
		Position: pos,
		PlacedAt: placedAt,
		Status:   OrderPending,
	}
}

// Bind the order to an agent and the store it will be collected from.
func (o *Order) Assign(agentID, storeID int) error {
	if o.Status != OrderPending {
		return o.transitionErr(OrderAssigned)
	}
	o.Status = OrderAssigned
	o.AgentID = &agentID
	o.StoreID = &storeID
	return nil
}

// Stamp the store arrival time. The order stays assigned until handling completes.
func (o *Order) ArriveAtStore(now float64) error {
	if o.Status != OrderAssigned || o.StoreArrivalAt != nil {
		return o.transitionErr(o.Status)
	}
	o.StoreArrivalAt = &now
	return nil
}

func (o *Order) PickUp() error {
	if o.Status != OrderAssigned {
		return o.transitionErr(OrderPickedUp)
	}
	o.Status = OrderPickedUp
	return nil
}

// Finalize delivery; delivery minutes = arrival - placed.
func (o *Order) Deliver(now float64) error {
	if o.Status != OrderPickedUp {
		return o.transitionErr(OrderDelivered)
	}
	d := now - o.PlacedAt
	o.Status = OrderDelivered
	o.CustomerArrivalAt = &now
	o.DeliveryMinutes = &d
	return nil
}

// Cancel is a terminal escape from any non-delivered state.
func (o *Order) Cancel() error {
	if o.Status == OrderDelivered || o.Status == OrderCancelled {
		return o.transitionErr(OrderCancelled)
	}
	o.Status = OrderCancelled
	return nil
}

func (o *Order) IsOpen() bool {
	return o.Status != OrderDelivered && o.Status != OrderCancelled
}

func (o *Order) transitionErr(to OrderStatus) error {
	return fmt.Errorf("order %d: %s -> %s: %w", o.ID, o.Status, to, ErrInvalidTransition)
}
