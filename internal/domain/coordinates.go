package domain

// Immutable geographic coordinates (latitude, longitude) in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Return coordinates as [lat, lng] for map/export compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lat, c.Lng} }

// NamedPoint is a labelled reference coordinate such as a city sector.
type NamedPoint struct {
	Name     string      `json:"name"`
	Position Coordinates `json:"position"`
}

// Represents an unstaffed fulfillment point agents collect orders from.
type DarkStore struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Position Coordinates `json:"position"`
}
