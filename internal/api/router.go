package api

import (
	"net/http"

	"darkstore-sim/internal/api/handlers"
	"darkstore-sim/internal/api/stream"
	"darkstore-sim/internal/platform/metrics"
	"darkstore-sim/internal/ports"
	"darkstore-sim/internal/services"
	"darkstore-sim/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the services the HTTP surface is composed from. Jobs and
// Distributor are optional; without them async sweeps answer 503.
type Deps struct {
	Sim       *services.SimulationService
	Scenarios *services.ScenarioService
	Sweeps    *services.SweepService
	Advisory  *services.AdvisoryService
	Hub       *stream.Hub

	Jobs        ports.SweepCache
	Distributor worker.TaskDistributor
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	simHandler := &handlers.SimulationHandler{Sim: d.Sim, Scenarios: d.Scenarios}
	scenarioHandler := &handlers.ScenarioHandler{Scenarios: d.Scenarios}
	optimizeHandler := &handlers.OptimizeHandler{
		Sweeps:      d.Sweeps,
		Scenarios:   d.Scenarios,
		Sim:         d.Sim,
		Jobs:        d.Jobs,
		Distributor: d.Distributor,
	}
	advisoryHandler := &handlers.AdvisoryHandler{Advisory: d.Advisory, Sim: d.Sim}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	if d.Hub != nil {
		r.Get("/ws", d.Hub.ServeWS)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/simulation", func(r chi.Router) {
			r.Get("/", simHandler.Status)
			r.Post("/start", simHandler.Start)
			r.Post("/pause", simHandler.Pause)
			r.Post("/reset", simHandler.Reset)
			r.Post("/step", simHandler.Step)
			r.Put("/config", simHandler.Configure)
			r.Get("/orders", simHandler.Orders)
			r.Get("/orders.csv", simHandler.ExportOrders)
		})

		r.Route("/optimize", func(r chi.Router) {
			r.Post("/", optimizeHandler.Run)
			r.Post("/jobs", optimizeHandler.Submit)
			r.Get("/jobs/{jobID}", optimizeHandler.Job)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", scenarioHandler.List)
			r.Post("/", scenarioHandler.Save)
			r.Get("/{scenarioID}", scenarioHandler.Get)
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", scenarioHandler.ListProfiles)
			r.Post("/", scenarioHandler.SaveProfile)
		})

		if d.Advisory != nil {
			r.Route("/advisory", func(r chi.Router) {
				r.Get("/", advisoryHandler.Latest)
				r.Post("/", advisoryHandler.Request)
			})
		}
	})

	return r
}
