package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAgentDeliveryLifecycle(t *testing.T) {
	// build test data
	start := Coordinates{Lat: 30.70, Lng: 76.70}
	store := Coordinates{Lat: 30.71, Lng: 76.71}
	customer := Coordinates{Lat: 30.72, Lng: 76.72}
	route := []Coordinates{start, store, customer}

	agent := NewAgent(1, start)
	require.True(t, agent.IsAvailable())
	require.Nil(t, agent.OrderID)
	require.Empty(t, agent.Route)

	require.NoError(t, agent.Dispatch(7, route, 1))
	require.Equal(t, AgentToStore, agent.Status)
	require.Equal(t, 1, agent.SegmentEnd())
	require.NotNil(t, agent.OrderID)
	require.Equal(t, 7, *agent.OrderID)

	// a busy agent cannot be dispatched twice
	err := agent.Dispatch(8, route, 1)
	require.ErrorIs(t, err, ErrInvalidTransition)

	agent.ArriveAtStore(store)
	require.Equal(t, AgentAtStore, agent.Status)
	require.Equal(t, store, agent.Position)
	require.NotEmpty(t, agent.Route)

	agent.StartDelivery()
	require.Equal(t, AgentToCustomer, agent.Status)
	require.Equal(t, 2, agent.SegmentEnd())
	require.Equal(t, 1, agent.Leg)

	agent.CompleteDelivery(customer, 45)
	require.True(t, agent.IsAvailable())
	require.Nil(t, agent.OrderID)
	require.Empty(t, agent.Route)
	require.Equal(t, customer, agent.Position)
	require.Equal(t, 1, agent.DeliveriesCompleted)
	require.Equal(t, 1, agent.ConsecutiveDeliveries)
	require.Equal(t, 45.0, agent.AvailableSince)
}

func TestAgentDispatchRejectsBadRoute(t *testing.T) {
	agent := NewAgent(1, Coordinates{})

	require.Error(t, agent.Dispatch(1, []Coordinates{{}}, 0))
	require.Error(t, agent.Dispatch(1, []Coordinates{{}, {}}, 2))
	require.True(t, agent.IsAvailable())
}

func TestAgentEffectiveSpeed(t *testing.T) {
	agent := NewAgent(1, Coordinates{})
	agent.Fatigue = 0.5

	require.InDelta(t, 15.0, agent.EffectiveSpeed(25, 1.2), 1e-9)
}
