package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/platform/metrics"
	"darkstore-sim/internal/ports"
	"darkstore-sim/internal/sim"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type RunState string

const (
	StateStopped RunState = "stopped"
	StateRunning RunState = "running"
	StatePaused  RunState = "paused"
)

var (
	ErrRunning    = errors.New("simulation is running")
	ErrNotRunning = errors.New("simulation is not running")
)

// Status is a consistent view of the controller at one point in time.
type Status struct {
	State    RunState             `json:"state"`
	Snapshot sim.Snapshot         `json:"snapshot"`
	Heatmap  []domain.Coordinates `json:"heatmap,omitempty"`
}

// SimulationService owns the single simulation run and drives it from a
// wall-clock ticker while running. Every engine access happens under mu,
// so a tick is never observed half-applied.
type SimulationService struct {
	mu        sync.Mutex
	params    sim.Params
	engine    *sim.Engine
	state     RunState
	interval  time.Duration
	heatmap   *Heatmap
	publisher ports.SnapshotPublisher
	logger    zerolog.Logger

	// driver generation; a driver only ticks while its generation is current
	gen  uint64
	stop chan struct{}
	done chan struct{}
}

func NewSimulationService(params sim.Params, interval time.Duration, publisher ports.SnapshotPublisher) (*SimulationService, error) {
	if interval <= 0 {
		return nil, errors.New("new simulation service: tick interval must be positive")
	}

	engine, err := sim.NewEngine(params)
	if err != nil {
		return nil, fmt.Errorf("new simulation service: %w", err)
	}

	return &SimulationService{
		params:    params,
		engine:    engine,
		state:     StateStopped,
		interval:  interval,
		heatmap:   NewHeatmap(DefaultHeatmapSize),
		publisher: publisher,
		logger:    log.With().Str("component", "simulation").Logger(),
	}, nil
}

func (s *SimulationService) State() RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SimulationService) Params() sim.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Start begins or resumes ticking.
func (s *SimulationService) Start() error {
	s.mu.Lock()
	if s.state == StateRunning {
		s.mu.Unlock()
		return ErrRunning
	}
	s.state = StateRunning
	s.gen++
	gen := s.gen
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stop, s.done
	frame := s.frameLocked(nil)
	s.mu.Unlock()

	go s.drive(gen, stop, done)

	s.logger.Info().Int("tick", frame.Snapshot.Tick).Dur("interval", s.interval).Msg("simulation started")
	s.publish(frame)
	return nil
}

// Pause stops the driver after the tick in progress, if any, completes.
func (s *SimulationService) Pause() error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.state = StatePaused
	stop, done := s.detachDriverLocked()
	frame := s.frameLocked(nil)
	s.mu.Unlock()

	haltDriver(stop, done)

	s.logger.Info().Int("tick", frame.Snapshot.Tick).Msg("simulation paused")
	s.publish(frame)
	return nil
}

// Reset stops the driver and rebuilds the run from the current parameters.
func (s *SimulationService) Reset() error {
	s.mu.Lock()
	engine, err := sim.NewEngine(s.params)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("reset simulation: %w", err)
	}
	stop, done := s.detachDriverLocked()
	s.engine = engine
	s.state = StateStopped
	s.heatmap.Reset()
	frame := s.frameLocked(nil)
	s.mu.Unlock()

	haltDriver(stop, done)

	s.logger.Info().Msg("simulation reset")
	s.publish(frame)
	return nil
}

// Configure replaces the parameters and re-initializes the run. It is
// rejected while running.
func (s *SimulationService) Configure(p sim.Params) error {
	s.mu.Lock()
	if s.state == StateRunning {
		s.mu.Unlock()
		return ErrRunning
	}
	engine, err := sim.NewEngine(p)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("configure simulation: %w", err)
	}
	s.params = p
	s.engine = engine
	s.state = StateStopped
	s.heatmap.Reset()
	frame := s.frameLocked(nil)
	s.mu.Unlock()

	s.logger.Info().
		Int("agents", p.AgentCount).
		Float64("speed_kmh", p.AgentSpeedKmh).
		Int("stores", len(p.Stores)).
		Str("profile", profileName(p)).
		Msg("simulation configured")
	s.publish(frame)
	return nil
}

// Step runs exactly one tick while not running.
func (s *SimulationService) Step() (sim.TickResult, error) {
	s.mu.Lock()
	if s.state == StateRunning {
		s.mu.Unlock()
		return sim.TickResult{}, ErrRunning
	}
	res := s.tickLocked()
	frame := s.frameLocked(res.Delivered)
	s.mu.Unlock()

	s.publish(frame)
	return res, nil
}

func (s *SimulationService) Status(includeOrders bool) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		State:    s.state,
		Snapshot: s.engine.Snapshot(includeOrders),
		Heatmap:  s.heatmap.Points(),
	}
}

// Close stops the driver. The run can be resumed with Start.
func (s *SimulationService) Close() {
	s.mu.Lock()
	if s.state == StateRunning {
		s.state = StatePaused
	}
	stop, done := s.detachDriverLocked()
	s.mu.Unlock()

	haltDriver(stop, done)
}

func (s *SimulationService) drive(gen uint64, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !s.tickIfCurrent(gen) {
				return
			}
		}
	}
}

func (s *SimulationService) tickIfCurrent(gen uint64) bool {
	s.mu.Lock()
	if s.state != StateRunning || s.gen != gen {
		s.mu.Unlock()
		return false
	}
	res := s.tickLocked()
	frame := s.frameLocked(res.Delivered)
	s.mu.Unlock()

	s.publish(frame)
	return true
}

func (s *SimulationService) tickLocked() sim.TickResult {
	start := time.Now()
	res := s.engine.Tick()
	metrics.TickDuration.Observe(time.Since(start).Seconds())

	for _, d := range res.Delivered {
		s.heatmap.Add(d.Position)
		metrics.DeliveryMinutes.Observe(d.DeliveryMinutes)
	}
	metrics.OrdersGenerated.Add(float64(len(res.NewOrders)))
	metrics.OrdersDelivered.Add(float64(len(res.Delivered)))
	metrics.OrdersCancelled.Add(float64(len(res.Cancelled)))
	metrics.StalledAgents.Add(float64(len(res.Stalled)))
	metrics.TrafficFactor.Set(res.Traffic)

	kpis := s.engine.State().KPIs()
	metrics.AvgFatigue.Set(kpis.AvgFatigue)
	for status, n := range kpis.AgentsByStatus {
		metrics.AgentsByStatus.WithLabelValues(string(status)).Set(float64(n))
	}

	if res.TrafficChanged {
		s.logger.Debug().Int("tick", res.Tick).Float64("traffic", res.Traffic).Msg("traffic refreshed")
	}
	return res
}

func (s *SimulationService) frameLocked(delivered []sim.Delivery) ports.Frame {
	return ports.Frame{
		State:     string(s.state),
		Snapshot:  s.engine.Snapshot(false),
		Delivered: delivered,
	}
}

func (s *SimulationService) detachDriverLocked() (stop, done chan struct{}) {
	stop, done = s.stop, s.done
	s.stop, s.done = nil, nil
	s.gen++
	return stop, done
}

func (s *SimulationService) publish(f ports.Frame) {
	if s.publisher != nil {
		s.publisher.Publish(f)
	}
}

func haltDriver(stop, done chan struct{}) {
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func profileName(p sim.Params) string {
	if len(p.Profile.Zones) > 0 {
		return p.Profile.Name
	}
	return p.Builtin
}
