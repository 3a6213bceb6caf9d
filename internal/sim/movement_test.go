package sim

import (
	"testing"

	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/geo"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveAgentsFullDelivery(t *testing.T) {
	p := DefaultParams()
	a := domain.NewAgent(1, near)
	s := newState(a)
	s.Orders = []*domain.Order{domain.NewOrder(1, "z", customer, 0)}

	require.Len(t, AssignPending(s, p, zerolog.Nop()), 1)
	routeKm := geo.PathLengthKm(a.Route)

	seen := map[domain.AgentStatus]bool{}
	var delivered []Delivery
	clock := 0.0
	for i := 0; i < 20 && len(delivered) == 0; i++ {
		clock += p.StepMinutes
		res := MoveAgents(s, p, clock, zerolog.Nop())
		delivered = res.Delivered
		seen[a.Status] = true
	}

	require.Len(t, delivered, 1)
	assert.True(t, seen[domain.AgentAtStore])
	assert.True(t, seen[domain.AgentToCustomer])

	o := s.Orders[0]
	assert.Equal(t, domain.OrderDelivered, o.Status)
	require.NotNil(t, o.StoreArrivalAt)
	require.NotNil(t, o.CustomerArrivalAt)
	assert.Equal(t, clock, *o.CustomerArrivalAt)
	assert.Equal(t, *o.CustomerArrivalAt-o.PlacedAt, *o.DeliveryMinutes)
	assert.Equal(t, delivered[0].DeliveryMinutes, *o.DeliveryMinutes)

	assert.Equal(t, domain.AgentAvailable, a.Status)
	assert.Nil(t, a.OrderID)
	assert.Empty(t, a.Route)
	assert.Equal(t, customer, a.Position)
	assert.Equal(t, 1, a.DeliveriesCompleted)
	assert.Equal(t, 1, a.ConsecutiveDeliveries)
	assert.Equal(t, clock, a.AvailableSince)
	assert.InDelta(t, routeKm, a.TotalDistanceKm, 1e-6)
	assert.InDelta(t, clock, a.ActiveMinutes(), 1e-9)
}

func TestMoveAgentsSnapsToStore(t *testing.T) {
	p := DefaultParams()
	a := domain.NewAgent(1, near)
	s := newState(a)
	s.Orders = []*domain.Order{domain.NewOrder(1, "z", customer, 0)}
	require.Len(t, AssignPending(s, p, zerolog.Nop()), 1)

	// near is ~0.25 km from the store, well inside one step
	MoveAgents(s, p, 5, zerolog.Nop())

	assert.Equal(t, domain.AgentAtStore, a.Status)
	assert.Equal(t, DefaultStore.Position, a.Position)
	require.NotNil(t, s.Orders[0].StoreArrivalAt)
	assert.Equal(t, 5.0, *s.Orders[0].StoreArrivalAt)
	assert.Equal(t, domain.OrderAssigned, s.Orders[0].Status)

	MoveAgents(s, p, 10, zerolog.Nop())
	assert.Equal(t, domain.AgentToCustomer, a.Status)
	assert.Equal(t, domain.OrderPickedUp, s.Orders[0].Status)
}

func TestMoveAgentsArrivesAtDispatchedStore(t *testing.T) {
	east := domain.DarkStore{ID: 2, Name: "east", Position: domain.Coordinates{Lat: 30.76, Lng: 76.82}}
	p := DefaultParams()
	p.Stores = []domain.DarkStore{DefaultStore, east}
	require.NoError(t, p.Validate())

	a := domain.NewAgent(1, domain.Coordinates{Lat: 30.761, Lng: 76.821})
	s := newState(a)
	s.Orders = []*domain.Order{domain.NewOrder(1, "z", domain.Coordinates{Lat: 30.758, Lng: 76.818}, 0)}
	require.Len(t, AssignPending(s, p, zerolog.Nop()), 1)
	require.Equal(t, east.Position, a.Route[a.StoreLeg])
	toStoreKm := geo.PathLengthKm(a.Route[:a.StoreLeg+1])

	MoveAgents(s, p, 5, zerolog.Nop())

	require.Equal(t, domain.AgentAtStore, a.Status)
	assert.Equal(t, east.Position, a.Position)
	assert.InDelta(t, toStoreKm, a.TotalDistanceKm, 1e-6)
}

func TestMoveAgentsPartialLeg(t *testing.T) {
	p := DefaultParams()
	p.WaypointSpacingKm = 0
	a := domain.NewAgent(1, far)
	s := newState(a)
	s.Orders = []*domain.Order{domain.NewOrder(1, "z", customer, 0)}
	require.Len(t, AssignPending(s, p, zerolog.Nop()), 1)

	res := MoveAgents(s, p, 5, zerolog.Nop())

	// 25 km/h for 5 minutes
	assert.InDelta(t, 25.0*5/60, res.DistanceKm, 1e-9)
	assert.Equal(t, domain.AgentToStore, a.Status)
	assert.Equal(t, 0, a.Leg)
	assert.Greater(t, a.LegProgress, 0.0)
	assert.Less(t, a.LegProgress, 1.0)
	assert.InDelta(t, res.DistanceKm, geo.DistanceKm(far, a.Position), 0.01)
}

func TestMoveAgentsStalled(t *testing.T) {
	p := DefaultParams()
	a := domain.NewAgent(1, far)
	s := newState(a)
	s.Orders = []*domain.Order{domain.NewOrder(1, "z", customer, 0)}
	require.Len(t, AssignPending(s, p, zerolog.Nop()), 1)

	s.Traffic = 0
	res := MoveAgents(s, p, 5, zerolog.Nop())

	assert.Equal(t, []int{1}, res.Stalled)
	assert.Equal(t, far, a.Position)
	assert.Equal(t, domain.AgentToStore, a.Status)
	assert.Zero(t, a.TotalDistanceKm)

	s.Traffic = 1
	res = MoveAgents(s, p, 10, zerolog.Nop())
	assert.Empty(t, res.Stalled)
	assert.Greater(t, a.TotalDistanceKm, 0.0)
}

func TestMoveAgentsIdleTime(t *testing.T) {
	p := DefaultParams()
	s := newState(domain.NewAgent(1, near))

	MoveAgents(s, p, 5, zerolog.Nop())
	MoveAgents(s, p, 10, zerolog.Nop())

	assert.Equal(t, 10.0, s.Agents[0].IdleMinutes)
	assert.Zero(t, s.Agents[0].ActiveMinutes())
}
