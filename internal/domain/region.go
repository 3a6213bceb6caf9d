package domain

// Represents the service area as a single polygon ring.
// Fallback is used when rejection sampling inside the ring gives up.
type Region struct {
	Name     string        `json:"name"`
	Ring     []Coordinates `json:"ring"`
	Fallback Coordinates   `json:"fallback"`
}

func (r Region) Validate() error {
	if len(r.Ring) < 3 {
		return NewConfigError("region", ErrInvalidRegion)
	}
	return nil
}

// Bounds returns the bounding box of the ring.
func (r Region) Bounds() (minLat, minLng, maxLat, maxLng float64) {
	if len(r.Ring) == 0 {
		return 0, 0, 0, 0
	}
	minLat, maxLat = r.Ring[0].Lat, r.Ring[0].Lat
	minLng, maxLng = r.Ring[0].Lng, r.Ring[0].Lng
	for _, c := range r.Ring[1:] {
		if c.Lat < minLat {
			minLat = c.Lat
		}
		if c.Lat > maxLat {
			maxLat = c.Lat
		}
		if c.Lng < minLng {
			minLng = c.Lng
		}
		if c.Lng > maxLng {
			maxLng = c.Lng
		}
	}
	return minLat, minLng, maxLat, maxLng
}
