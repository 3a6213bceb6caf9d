package sim

import (
	"fmt"
	"math"
	"math/rand"

	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/geo"
)

// SectorRadiusKm is the sampling radius around a named sector.
const SectorRadiusKm = 1.0

const minutesPerDay = 24 * 60

// Spawn is a new order position produced by the demand generator. The
// engine assigns ids and owns the resulting orders.
type Spawn struct {
	Zone     string
	Position domain.Coordinates
}

type DemandGenerator struct {
	region      domain.Region
	profile     domain.DemandProfile
	builtin     BuiltinProfile
	stepMinutes float64
	startHour   int
}

func NewDemandGenerator(p Params) *DemandGenerator {
	b, _ := LookupBuiltin(p.Builtin)
	return &DemandGenerator{
		region:      p.Region,
		profile:     p.Profile,
		builtin:     b,
		stepMinutes: p.StepMinutes,
		startHour:   p.StartHour,
	}
}

// Generate produces the orders placed during the step ending at clock.
func (g *DemandGenerator) Generate(rng *rand.Rand, clock float64, stores []domain.DarkStore) []Spawn {
	if len(g.profile.Zones) == 0 {
		return g.generateBuiltin(rng, stores)
	}

	hour := HourOfDay(g.startHour, clock)

	var out []Spawn
	for _, z := range g.profile.Zones {
		if !z.Active(hour) {
			continue
		}
		n := StepOrderCount(rng, z.MinOrdersPerHour, z.MaxOrdersPerHour, g.stepMinutes)
		for i := 0; i < n; i++ {
			out = append(out, Spawn{Zone: z.Name, Position: g.place(rng, z)})
		}
	}
	return out
}

func (g *DemandGenerator) generateBuiltin(rng *rand.Rand, stores []domain.DarkStore) []Spawn {
	var out []Spawn
	for i := 0; i < g.builtin.TrialsPerStep; i++ {
		if rng.Float64() >= g.builtin.Probability {
			continue
		}
		var p domain.Coordinates
		if g.builtin.Hotspot && len(stores) > 0 {
			s := stores[rng.Intn(len(stores))]
			p = geo.RandomPointNearHotspot(rng, g.region, s.Position, g.builtin.RadiusKm)
		} else {
			p = geo.RandomPointInRegion(rng, g.region)
		}
		out = append(out, Spawn{Zone: g.builtin.Name, Position: p})
	}
	return out
}

func (g *DemandGenerator) place(rng *rand.Rand, z domain.DemandZone) domain.Coordinates {
	switch z.Kind {
	case domain.ZoneHotspot:
		return geo.RandomPointNearHotspot(rng, g.region, *z.Center, z.RadiusKm)
	case domain.ZoneSector:
		s := z.Sectors[rng.Intn(len(z.Sectors))]
		return geo.RandomPointNearHotspot(rng, g.region, s.Position, SectorRadiusKm)
	case domain.ZoneRoute:
		i := rng.Intn(len(z.Path) - 1)
		anchor := geo.Lerp(z.Path[i], z.Path[i+1], rng.Float64())
		return geo.RandomPointNearHotspot(rng, g.region, anchor, z.BufferKm)
	default:
		return geo.RandomPointInRegion(rng, g.region)
	}
}

// StepOrderCount draws an hourly rate from [min, max], scales it to the
// step and rounds the fractional part up with matching probability.
func StepOrderCount(rng *rand.Rand, minPerHour, maxPerHour, stepMinutes float64) int {
	rate := minPerHour + rng.Float64()*(maxPerHour-minPerHour)
	expected := rate * stepMinutes / 60
	n := math.Floor(expected)
	if rng.Float64() < expected-n {
		n++
	}
	return int(n)
}

// HourOfDay maps a sim clock onto the wall hour, starting at startHour.
func HourOfDay(startHour int, clock float64) int {
	return minuteOfDay(startHour, clock) / 60
}

// TimeOfDay formats the sim clock as HH:MM.
func TimeOfDay(startHour int, clock float64) string {
	m := minuteOfDay(startHour, clock)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func minuteOfDay(startHour int, clock float64) int {
	m := (startHour*60 + int(math.Floor(clock))) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return m
}
