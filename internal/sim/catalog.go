package sim

import "darkstore-sim/internal/domain"

// Static catalog consumed at initialization.

var DefaultStore = domain.DarkStore{
	ID:       1,
	Name:     "DS-Central",
	Position: domain.Coordinates{Lat: 30.7333, Lng: 76.7794},
}

// DefaultRegion is the Chandigarh tricity service polygon.
var DefaultRegion = domain.Region{
	Name: "chandigarh",
	Ring: []domain.Coordinates{
		{Lat: 30.6600, Lng: 76.7400},
		{Lat: 30.6850, Lng: 76.6900},
		{Lat: 30.7600, Lng: 76.6800},
		{Lat: 30.7950, Lng: 76.7500},
		{Lat: 30.7800, Lng: 76.8400},
		{Lat: 30.7150, Lng: 76.8600},
		{Lat: 30.6700, Lng: 76.8100},
	},
	Fallback: DefaultStore.Position,
}

var DefaultSectors = []domain.NamedPoint{
	{Name: "Sector 17", Position: domain.Coordinates{Lat: 30.7398, Lng: 76.7827}},
	{Name: "Sector 22", Position: domain.Coordinates{Lat: 30.7335, Lng: 76.7725}},
	{Name: "Sector 35", Position: domain.Coordinates{Lat: 30.7226, Lng: 76.7588}},
	{Name: "Sector 43", Position: domain.Coordinates{Lat: 30.7190, Lng: 76.7492}},
	{Name: "Sector 8", Position: domain.Coordinates{Lat: 30.7520, Lng: 76.8004}},
	{Name: "Sector 26", Position: domain.Coordinates{Lat: 30.7293, Lng: 76.8037}},
	{Name: "Industrial Area", Position: domain.Coordinates{Lat: 30.7046, Lng: 76.8010}},
}

// BuiltinProfile is a zone-less demand profile: each step runs
// TrialsPerStep Bernoulli trials with success probability Probability.
// Hotspot profiles place orders near a random dark store.
type BuiltinProfile struct {
	Name          string  `json:"name"`
	Probability   float64 `json:"probability"`
	TrialsPerStep int     `json:"trials_per_step"`
	Hotspot       bool    `json:"hotspot"`
	RadiusKm      float64 `json:"radius_km,omitempty"`
}

const (
	BuiltinUniform = "default-uniform"
	BuiltinHotspot = "default-hotspot"
)

var builtinProfiles = map[string]BuiltinProfile{
	BuiltinUniform: {Name: BuiltinUniform, Probability: 0.7, TrialsPerStep: 3},
	BuiltinHotspot: {Name: BuiltinHotspot, Probability: 0.7, TrialsPerStep: 3, Hotspot: true, RadiusKm: 3},
}

// LookupBuiltin returns the compiled-in profile with the given name.
func LookupBuiltin(name string) (BuiltinProfile, bool) {
	p, ok := builtinProfiles[name]
	return p, ok
}

func BuiltinNames() []string {
	return []string{BuiltinUniform, BuiltinHotspot}
}
