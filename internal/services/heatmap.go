package services

import "darkstore-sim/internal/domain"

const DefaultHeatmapSize = 500

// Heatmap keeps the most recent delivered positions in a fixed ring.
// It is not safe for concurrent use.
type Heatmap struct {
	points []domain.Coordinates
	next   int
	full   bool
}

func NewHeatmap(size int) *Heatmap {
	if size <= 0 {
		size = DefaultHeatmapSize
	}
	return &Heatmap{points: make([]domain.Coordinates, size)}
}

func (h *Heatmap) Add(p domain.Coordinates) {
	h.points[h.next] = p
	h.next = (h.next + 1) % len(h.points)
	if h.next == 0 {
		h.full = true
	}
}

func (h *Heatmap) Len() int {
	if h.full {
		return len(h.points)
	}
	return h.next
}

// Points returns a copy, oldest first.
func (h *Heatmap) Points() []domain.Coordinates {
	if !h.full {
		return append([]domain.Coordinates(nil), h.points[:h.next]...)
	}
	out := make([]domain.Coordinates, 0, len(h.points))
	out = append(out, h.points[h.next:]...)
	return append(out, h.points[:h.next]...)
}

func (h *Heatmap) Reset() {
	h.next = 0
	h.full = false
}
