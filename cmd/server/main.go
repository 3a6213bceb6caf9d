package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"darkstore-sim/internal/adapters/advisory"
	"darkstore-sim/internal/adapters/cache"
	"darkstore-sim/internal/adapters/repositories"
	"darkstore-sim/internal/api"
	"darkstore-sim/internal/api/stream"
	"darkstore-sim/internal/config"
	"darkstore-sim/internal/platform/db"
	"darkstore-sim/internal/platform/obs"
	"darkstore-sim/internal/ports"
	"darkstore-sim/internal/services"
	"darkstore-sim/internal/sim"
	"darkstore-sim/internal/worker"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, Redis, advisory endpoint)
// behind ports and runs the HTTP server, tick driver and background workers.
func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	obs.SetupLogger(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	conn, repo, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	sweepCache, closeCache, err := openSweepCache(ctx, cfg, conn)
	if err != nil {
		return err
	}
	defer closeCache()

	hub := stream.NewHub(ctx)

	params := sim.DefaultParams()
	params.AgentCount = cfg.AgentCount
	params.AgentSpeedKmh = cfg.AgentSpeedKmh
	params.StepMinutes = cfg.StepMinutes
	params.StartHour = cfg.StartHour
	params.Seed = cfg.Seed

	simulation, err := services.NewSimulationService(params, cfg.TickInterval, hub)
	if err != nil {
		return err
	}
	defer simulation.Close()

	scenarios := services.NewScenarioService(repo, simulation)
	sweeps := services.NewSweepService(sweepCache)

	advisoryClient, err := newAdvisoryClient(cfg)
	if err != nil {
		return err
	}
	advisories := services.NewAdvisoryService(advisoryClient, cfg.AdvisoryCooldown, cfg.AdvisoryTimeout)
	defer advisories.Wait()

	deps := api.Deps{
		Sim:       simulation,
		Scenarios: scenarios,
		Sweeps:    sweeps,
		Advisory:  advisories,
		Hub:       hub,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run()
		return nil
	})

	if cfg.AutosaveSchedule != "" {
		autosave, err := services.NewAutosave(cfg.AutosaveSchedule, scenarios, simulation)
		if err != nil {
			return err
		}
		autosave.Start()
		g.Go(func() error {
			<-ctx.Done()
			autosave.Stop()
			return nil
		})
	}

	if cfg.RedisAddress != "" {
		redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddress, Password: cfg.RedisPassword}

		distributor := worker.NewRedisTaskDistributor(redisOpt)
		defer distributor.Close()
		deps.Jobs = sweepCache
		deps.Distributor = distributor

		processor := worker.NewRedisTaskProcessor(redisOpt, sweeps, sweepCache)
		if err := processor.Start(); err != nil {
			return fmt.Errorf("start task processor: %w", err)
		}
		log.Info().Str("redis", cfg.RedisAddress).Msg("task processor started")
		g.Go(func() error {
			<-ctx.Done()
			processor.Shutdown()
			log.Info().Msg("task processor stopped")
			return nil
		})
	}

	// Write timeout covers a synchronous sweep.
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		simulation.Close()
		hub.Shutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// openStore opens the configured database. Local sqlite runs initialize
// the schema and seed demand profiles on startup.
func openStore(ctx context.Context, cfg config.Config) (*sql.DB, ports.ScenarioRepository, error) {
	if cfg.DBDriver == "postgres" {
		conn, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return conn, repositories.NewPostgresScenarioRepository(conn), nil
	}

	conn, err := db.OpenSqlite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSchema(conn); err != nil {
		conn.Close()
		return nil, nil, err
	}

	repo := repositories.NewSqliteScenarioRepository(conn)
	n, err := repositories.SeedProfilesFromJSON(ctx, repo, cfg.SeedPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Info().Str("path", cfg.SeedPath).Msg("no seed file, skipping profile seeding")
	case err != nil:
		conn.Close()
		return nil, nil, err
	default:
		log.Info().Int("profiles", n).Msg("demand profiles seeded")
	}
	return conn, repo, nil
}

// openSweepCache prefers Redis and falls back to the SQL database.
func openSweepCache(ctx context.Context, cfg config.Config, conn *sql.DB) (ports.SweepCache, func(), error) {
	if cfg.RedisAddress != "" {
		c, err := cache.DialRedisSweepCache(ctx, cfg.RedisAddress, cfg.RedisPassword, cfg.SweepCacheTTL)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Close() }, nil
	}
	if cfg.DBDriver == "postgres" {
		return cache.NewSQLSweepCache(conn), func() {}, nil
	}
	return cache.NewSqliteSweepCache(conn), func() {}, nil
}

// newAdvisoryClient returns nil when advisory is disabled. Development
// without an endpoint gets canned replies.
func newAdvisoryClient(cfg config.Config) (ports.AdvisoryClient, error) {
	if cfg.AdvisoryURL != "" {
		opts := []advisory.Option{advisory.WithHTTPClient(&http.Client{Timeout: cfg.AdvisoryTimeout})}
		if cfg.AdvisoryModel != "" {
			opts = append(opts, advisory.WithModel(cfg.AdvisoryModel))
		}
		c, err := advisory.NewHTTPClient(cfg.AdvisoryURL, cfg.AdvisoryAPIKey, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	if cfg.Environment == "development" {
		return advisory.NewFixedClient(
			"Keep agent count steady and watch completion rate during peak hours.",
			advisory.FixedRule{Contains: "hotspot", Reply: "Pre-position idle agents near the hotspot before its window opens."},
		), nil
	}
	return nil, nil
}
