package sim

import (
	"fmt"
	"math/rand"

	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/geo"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Initial agents are scattered this far around their home store.
const agentSpawnRadiusKm = 1.0

// TickResult lists what happened during one tick.
type TickResult struct {
	Tick           int          `json:"tick"`
	Clock          float64      `json:"clock"`
	Traffic        float64      `json:"traffic"`
	TrafficChanged bool         `json:"traffic_changed"`
	NewOrders      []int        `json:"new_orders"`
	Cancelled      []int        `json:"cancelled"`
	Assignments    []Assignment `json:"assignments"`
	Delivered      []Delivery   `json:"delivered"`
	Stalled        []int        `json:"stalled"`
	DistanceKm     float64      `json:"distance_km"`
}

// Engine steps one simulation run. It is not safe for concurrent use; the
// caller serializes ticks and snapshots.
type Engine struct {
	params Params
	rng    *rand.Rand
	demand *DemandGenerator
	state  State
	logger zerolog.Logger
}

// NewEngine validates p and builds the initial state: AgentCount agents
// spread round-robin over the stores and no orders.
func NewEngine(p Params) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}

	e := &Engine{
		params: p,
		rng:    rand.New(rand.NewSource(p.Seed)),
		demand: NewDemandGenerator(p),
		logger: log.With().Str("component", "sim").Str("fidelity", p.Fidelity.String()).Logger(),
	}
	e.state.Traffic = p.TrafficFactor

	e.state.Agents = make([]*domain.Agent, p.AgentCount)
	for i := range e.state.Agents {
		home := p.Stores[i%len(p.Stores)].Position
		pos := home
		if p.Fidelity == FidelityFull {
			pos = geo.RandomPointNearHotspot(e.rng, p.Region, home, agentSpawnRadiusKm)
		}
		e.state.Agents[i] = domain.NewAgent(i+1, pos)
	}
	return e, nil
}

func (e *Engine) Params() Params { return e.params }

// State exposes the live state. Callers must not retain it across ticks.
func (e *Engine) State() *State { return &e.state }

func (e *Engine) Snapshot(includeOrders bool) Snapshot {
	return e.state.Snapshot(e.params.StartHour, includeOrders)
}

// Tick runs the fixed pipeline: clock, traffic, demand, cancellation,
// assignment, movement, fatigue, counters.
func (e *Engine) Tick() TickResult {
	s := &e.state
	p := e.params

	s.Tick++
	s.Clock += p.StepMinutes
	res := TickResult{Tick: s.Tick, Clock: s.Clock}

	if p.Fidelity == FidelityFull && p.Traffic.Dynamic && p.Traffic.RefreshTicks > 0 && s.Tick%p.Traffic.RefreshTicks == 0 {
		s.Traffic = p.Traffic.Min + e.rng.Float64()*(p.Traffic.Max-p.Traffic.Min)
		res.TrafficChanged = true
	}
	res.Traffic = s.Traffic

	for _, sp := range e.demand.Generate(e.rng, s.Clock, p.Stores) {
		o := domain.NewOrder(len(s.Orders)+1, sp.Zone, sp.Position, s.Clock)
		s.Orders = append(s.Orders, o)
		res.NewOrders = append(res.NewOrders, o.ID)
	}

	res.Cancelled = e.cancelStale()
	res.Assignments = AssignPending(s, p, e.logger)

	mv := MoveAgents(s, p, s.Clock, e.logger)
	res.Delivered = mv.Delivered
	res.Stalled = mv.Stalled
	res.DistanceKm = mv.DistanceKm

	if p.Fidelity == FidelityFull {
		ApplyFatigue(s.Agents, p.Fatigue, p.StepMinutes)
	}

	s.TotalGenerated += len(res.NewOrders)
	s.TotalCancelled += len(res.Cancelled)
	s.TotalDistanceKm += mv.DistanceKm
	for _, d := range mv.Delivered {
		s.TotalDelivered++
		s.DeliveryMinutesSum += d.DeliveryMinutes
	}

	e.logger.Debug().
		Int("tick", s.Tick).
		Float64("clock", s.Clock).
		Int("new_orders", len(res.NewOrders)).
		Int("assigned", len(res.Assignments)).
		Int("delivered", len(res.Delivered)).
		Msg("tick")
	return res
}

// cancelStale cancels pending orders that waited longer than
// CancelAfterMinutes.
func (e *Engine) cancelStale() []int {
	limit := e.params.CancelAfterMinutes
	if limit <= 0 {
		return nil
	}

	var out []int
	for _, o := range e.state.Orders {
		if o.Status != domain.OrderPending || e.state.Clock-o.PlacedAt <= limit {
			continue
		}
		if err := o.Cancel(); err != nil {
			e.logger.Error().Err(err).Msg("cancel failed")
			continue
		}
		out = append(out, o.ID)
	}
	return out
}
