package dto

import (
	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/sim"
)

type StoreRequest struct {
	ID   int     `json:"id" validate:"required,min=1"`
	Name string  `json:"name" validate:"max=80"`
	Lat  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng  float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// ConfigRequest changes simulation parameters. Zero-valued fields keep the
// current setting.
type ConfigRequest struct {
	AgentCount         int            `json:"agent_count" validate:"omitempty,min=1,max=500"`
	AgentSpeedKmh      float64        `json:"agent_speed_kmh" validate:"omitempty,gt=0,lte=120"`
	StepMinutes        float64        `json:"step_minutes" validate:"omitempty,gt=0,lte=60"`
	StartHour          *int           `json:"start_hour" validate:"omitempty,min=0,max=23"`
	TrafficFactor      float64        `json:"traffic_factor" validate:"omitempty,gt=0,lte=5"`
	DynamicTraffic     *bool          `json:"dynamic_traffic"`
	CancelAfterMinutes *float64       `json:"cancel_after_minutes" validate:"omitempty,gte=0"`
	Profile            string         `json:"profile" validate:"omitempty,max=80,profilename"`
	Stores             []StoreRequest `json:"stores" validate:"omitempty,max=20,unique=ID,dive"`
	Seed               *int64         `json:"seed"`
}

// Apply overlays the request on base. The profile name is resolved by the
// caller.
func (r ConfigRequest) Apply(base sim.Params) sim.Params {
	p := base
	if r.AgentCount != 0 {
		p.AgentCount = r.AgentCount
	}
	if r.AgentSpeedKmh != 0 {
		p.AgentSpeedKmh = r.AgentSpeedKmh
	}
	if r.StepMinutes != 0 {
		p.StepMinutes = r.StepMinutes
	}
	if r.StartHour != nil {
		p.StartHour = *r.StartHour
	}
	if r.TrafficFactor != 0 {
		p.TrafficFactor = r.TrafficFactor
	}
	if r.DynamicTraffic != nil {
		p.Traffic.Dynamic = *r.DynamicTraffic
	}
	if r.CancelAfterMinutes != nil {
		p.CancelAfterMinutes = *r.CancelAfterMinutes
	}
	if len(r.Stores) > 0 {
		p.Stores = make([]domain.DarkStore, 0, len(r.Stores))
		for _, s := range r.Stores {
			p.Stores = append(p.Stores, domain.DarkStore{
				ID:       s.ID,
				Name:     s.Name,
				Position: domain.Coordinates{Lat: s.Lat, Lng: s.Lng},
			})
		}
	}
	if r.Seed != nil {
		p.Seed = *r.Seed
	}
	return p
}

type OrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type OrderResponse struct {
	OrderID           int      `json:"order_id"`
	Zone              string   `json:"zone"`
	Status            string   `json:"status"`
	PlacedAt          float64  `json:"placed_at"`
	StoreArrivalAt    *float64 `json:"store_arrival_at"`
	CustomerArrivalAt *float64 `json:"customer_arrival_at"`
	DeliveryMinutes   *float64 `json:"delivery_minutes"`
	AgentID           *int     `json:"agent_id"`
	StoreID           *int     `json:"store_id"`
	Lat               float64  `json:"lat"`
	Lng               float64  `json:"lng"`
}
