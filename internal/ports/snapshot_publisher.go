package ports

import "darkstore-sim/internal/sim"

// Frame is pushed to live subscribers after every tick and on every
// state change of the simulation controller.
type Frame struct {
	State     string         `json:"state"`
	Snapshot  sim.Snapshot   `json:"snapshot"`
	Delivered []sim.Delivery `json:"delivered,omitempty"`
}

// Publish must not block the caller.
type SnapshotPublisher interface {
	Publish(f Frame)
}
