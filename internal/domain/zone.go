package domain

import "fmt"

type ZoneKind string

const (
	ZoneUniform ZoneKind = "uniform"
	ZoneHotspot ZoneKind = "hotspot"
	ZoneSector  ZoneKind = "sector"
	ZoneRoute   ZoneKind = "route"
)

// DemandZone is a tagged variant discriminated by Kind. The shared base
// carries the hourly order range and the active hour window; only the
// geometry fields of the matching kind are read.
//
// The hour window is an inclusive range of hours of day (0..23). A window
// with StartHour > EndHour wraps past midnight.
type DemandZone struct {
	Name             string   `json:"name"`
	Kind             ZoneKind `json:"kind"`
	MinOrdersPerHour float64  `json:"min_orders_per_hour"`
	MaxOrdersPerHour float64  `json:"max_orders_per_hour"`
	StartHour        int      `json:"start_hour"`
	EndHour          int      `json:"end_hour"`

	// hotspot
	Center   *Coordinates `json:"center,omitempty"`
	RadiusKm float64      `json:"radius_km,omitempty"`

	// sector
	Sectors []NamedPoint `json:"sectors,omitempty"`

	// route
	Path     []Coordinates `json:"path,omitempty"`
	BufferKm float64       `json:"buffer_km,omitempty"`
}

// Active reports whether the zone generates orders at the given hour of day.
func (z DemandZone) Active(hour int) bool {
	if z.StartHour <= z.EndHour {
		return hour >= z.StartHour && hour <= z.EndHour
	}
	return hour >= z.StartHour || hour <= z.EndHour
}

func (z DemandZone) Validate() error {
	field := func(f string) string { return fmt.Sprintf("zone %q: %s", z.Name, f) }

	if z.MinOrdersPerHour < 0 || z.MaxOrdersPerHour < z.MinOrdersPerHour {
		return NewConfigError(field("orders_per_hour"), fmt.Errorf("%w: [%g, %g]", ErrInvalidOrderRange, z.MinOrdersPerHour, z.MaxOrdersPerHour))
	}
	if z.StartHour < 0 || z.StartHour > 23 || z.EndHour < 0 || z.EndHour > 23 {
		return NewConfigError(field("hours"), fmt.Errorf("%w: [%d, %d]", ErrInvalidHourWindow, z.StartHour, z.EndHour))
	}

	switch z.Kind {
	case ZoneUniform:
	case ZoneHotspot:
		if z.Center == nil || z.RadiusKm <= 0 {
			return NewConfigError(field("center"), fmt.Errorf("%w: hotspot needs center and positive radius", ErrMissingGeometry))
		}
	case ZoneSector:
		if len(z.Sectors) == 0 {
			return NewConfigError(field("sectors"), fmt.Errorf("%w: sector zone needs at least one sector", ErrMissingGeometry))
		}
	case ZoneRoute:
		if len(z.Path) < 2 || z.BufferKm <= 0 {
			return NewConfigError(field("path"), fmt.Errorf("%w: route zone needs 2+ points and positive buffer", ErrMissingGeometry))
		}
	default:
		return NewConfigError(field("kind"), fmt.Errorf("%w: %q", ErrUnknownZoneKind, z.Kind))
	}

	return nil
}

// Named ordered collection of zones. Zone contributions are additive.
type DemandProfile struct {
	Name  string       `json:"name"`
	Zones []DemandZone `json:"zones"`
}

func (p DemandProfile) Validate() error {
	for _, z := range p.Zones {
		if err := z.Validate(); err != nil {
			return fmt.Errorf("profile %q: %w", p.Name, err)
		}
	}
	return nil
}
