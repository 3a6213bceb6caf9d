package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderTransitions(t *testing.T) {
	order := NewOrder(1, "core", Coordinates{Lat: 30.7, Lng: 76.7}, 10)
	require.Equal(t, OrderPending, order.Status)
	require.Nil(t, order.StoreArrivalAt)
	require.Nil(t, order.CustomerArrivalAt)
	require.Nil(t, order.DeliveryMinutes)

	// pickup before assignment is rejected
	require.ErrorIs(t, order.PickUp(), ErrInvalidTransition)

	require.NoError(t, order.Assign(3, 1))
	require.Equal(t, OrderAssigned, order.Status)
	require.Equal(t, 3, *order.AgentID)
	require.Equal(t, 1, *order.StoreID)

	require.NoError(t, order.ArriveAtStore(15))
	require.ErrorIs(t, order.ArriveAtStore(20), ErrInvalidTransition)
	require.NoError(t, order.PickUp())
	require.NoError(t, order.Deliver(40))

	require.Equal(t, OrderDelivered, order.Status)
	require.Equal(t, 15.0, *order.StoreArrivalAt)
	require.Equal(t, 40.0, *order.CustomerArrivalAt)
	require.Equal(t, 30.0, *order.DeliveryMinutes)
	require.False(t, order.IsOpen())

	require.ErrorIs(t, order.Cancel(), ErrInvalidTransition)
}

func TestOrderCancel(t *testing.T) {
	tests := map[string]func(o *Order){
		"Pending":  func(o *Order) {},
		"Assigned": func(o *Order) { _ = o.Assign(1, 1) },
		"PickedUp": func(o *Order) { _ = o.Assign(1, 1); _ = o.PickUp() },
	}

	for name, prepare := range tests {
		t.Run(name, func(t *testing.T) {
			order := NewOrder(1, "", Coordinates{}, 0)
			prepare(order)

			require.NoError(t, order.Cancel())
			require.Equal(t, OrderCancelled, order.Status)
			require.ErrorIs(t, order.Cancel(), ErrInvalidTransition)
			require.ErrorIs(t, order.Assign(2, 1), ErrInvalidTransition)
		})
	}
}
