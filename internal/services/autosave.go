package services

import (
	"context"
	"fmt"
	"time"

	"darkstore-sim/internal/domain"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Autosave archives the running simulation on a cron schedule. Paused and
// stopped runs are skipped.
type Autosave struct {
	cron      *cron.Cron
	scenarios *ScenarioService
	sim       *SimulationService
	timeout   time.Duration
	logger    zerolog.Logger
}

func NewAutosave(schedule string, scenarios *ScenarioService, simulation *SimulationService) (*Autosave, error) {
	a := &Autosave{
		cron:      cron.New(),
		scenarios: scenarios,
		sim:       simulation,
		timeout:   10 * time.Second,
		logger:    log.With().Str("component", "autosave").Logger(),
	}
	if _, err := a.cron.AddFunc(schedule, a.run); err != nil {
		return nil, fmt.Errorf("new autosave: schedule %q: %w", schedule, err)
	}
	return a, nil
}

func (a *Autosave) Start() { a.cron.Start() }

// Stop waits for a save in progress.
func (a *Autosave) Stop() {
	<-a.cron.Stop().Done()
}

func (a *Autosave) run() {
	if a.sim.State() != StateRunning {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	sc, err := a.scenarios.SaveCurrent(ctx, "", domain.ScenarioSourceAutosave)
	if err != nil {
		a.logger.Warn().Err(err).Msg("autosave failed")
		return
	}
	a.logger.Info().Str("scenario_id", sc.ID).Int("delivered", sc.TotalDelivered).Msg("autosaved")
}
