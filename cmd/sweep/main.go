package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/export"
	"darkstore-sim/internal/platform/metrics"
	"darkstore-sim/internal/platform/obs"
	"darkstore-sim/internal/services"
	"darkstore-sim/internal/sim"

	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog/log"
)

// sweep runs the agent-count optimization headless and prints the table.
func main() {
	obs.SetupLogger(os.Getenv("ENVIRONMENT"), os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	def := services.DefaultSweepRequest()

	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	minAgents := fs.Int("min-agents", def.MinAgents, "Smallest agent count to try")
	maxAgents := fs.Int("max-agents", def.MaxAgents, "Largest agent count to try")
	reps := fs.Int("reps", def.Repetitions, "Repetitions per agent count")
	horizon := fs.Float64("horizon", def.HorizonMinutes, "Simulated minutes per repetition")
	step := fs.Float64("step", def.StepMinutes, "Simulated minutes per tick")
	speed := fs.Float64("speed", def.AgentSpeedKmh, "Agent speed in km/h")
	startHour := fs.Int("start-hour", def.StartHour, "Hour of day the runs start at")
	seed := fs.Int64("seed", def.Seed, "Base random seed")
	sla := fs.Float64("sla", def.SLAMinutes, "SLA delivery time in minutes")
	target := fs.Float64("target", def.TargetDeliveryMinutes, "Target average delivery time in minutes")
	minCompletion := fs.Float64("min-completion", def.MinCompletionPct, "Minimum completion percentage")
	minSLA := fs.Float64("min-sla", def.MinSLAPct, "Minimum percentage of deliveries within SLA")
	hourly := fs.Float64("hourly-rate", def.HourlyRate, "Cost per agent hour")
	perKm := fs.Float64("km-rate", def.PerKmRate, "Cost per km travelled")
	builtin := fs.String("profile", def.Builtin, "Built-in demand profile: default-uniform|default-hotspot")
	profileFile := fs.String("profile-file", "", "JSON file with a custom demand profile (overrides -profile)")
	storeLat := fs.Float64("store-lat", def.Store.Position.Lat, "Dark store latitude")
	storeLng := fs.Float64("store-lng", def.Store.Position.Lng, "Dark store longitude")
	format := fs.String("format", "text", "Output format: text|json|csv")
	pushGateway := fs.String("push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := export.ParseFormat(*format)
	if err != nil {
		return err
	}

	req := def
	req.MinAgents = *minAgents
	req.MaxAgents = *maxAgents
	req.Repetitions = *reps
	req.HorizonMinutes = *horizon
	req.StepMinutes = *step
	req.AgentSpeedKmh = *speed
	req.StartHour = *startHour
	req.Seed = *seed
	req.SLAMinutes = *sla
	req.TargetDeliveryMinutes = *target
	req.MinCompletionPct = *minCompletion
	req.MinSLAPct = *minSLA
	req.HourlyRate = *hourly
	req.PerKmRate = *perKm
	req.Store.Position = domain.Coordinates{Lat: *storeLat, Lng: *storeLng}

	if *profileFile != "" {
		p, err := loadProfile(*profileFile)
		if err != nil {
			return err
		}
		req.Profile = p
		req.Builtin = ""
	} else {
		if _, ok := sim.LookupBuiltin(*builtin); !ok {
			return fmt.Errorf("%w: %q", sim.ErrUnknownBuiltin, *builtin)
		}
		req.Builtin = *builtin
	}

	report, err := services.NewSweepService(nil).Run(ctx, req)
	if err != nil {
		return err
	}

	if err := export.WriteSweep(stdout, report, f); err != nil {
		return err
	}

	if *pushGateway != "" {
		if err := push.New(*pushGateway, "darkstore_sweep").Gatherer(metrics.Registry).Push(); err != nil {
			log.Warn().Err(err).Str("url", *pushGateway).Msg("push to pushgateway failed")
		} else {
			log.Info().Str("url", *pushGateway).Msg("metrics pushed")
		}
	}
	return nil
}

func loadProfile(path string) (domain.DemandProfile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.DemandProfile{}, fmt.Errorf("load profile: %w", err)
	}

	var p domain.DemandProfile
	if err := json.Unmarshal(b, &p); err != nil {
		return domain.DemandProfile{}, fmt.Errorf("load profile: parse %q: %w", path, err)
	}
	if len(p.Zones) == 0 {
		return domain.DemandProfile{}, fmt.Errorf("load profile: %q has no zones", path)
	}
	if err := p.Validate(); err != nil {
		return domain.DemandProfile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}
