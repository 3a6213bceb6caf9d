package handlers

import (
	"fmt"
	"net/http"

	"darkstore-sim/internal/api/dto"
	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/export"
	"darkstore-sim/internal/ports"
	"darkstore-sim/internal/services"
	"darkstore-sim/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type OptimizeHandler struct {
	Sweeps    *services.SweepService
	Scenarios *services.ScenarioService
	Sim       *services.SimulationService

	// Both nil when no Redis is configured; async jobs are then disabled.
	Jobs        ports.SweepCache
	Distributor worker.TaskDistributor
}

// request builds a sweep request around one of the live simulation's
// stores.
func (h *OptimizeHandler) request(w http.ResponseWriter, r *http.Request) (domain.SweepRequest, bool) {
	var body dto.SweepRequest
	if !decodeJSON(w, r, &body, true) {
		return domain.SweepRequest{}, false
	}

	req := body.Apply(services.DefaultSweepRequest())
	store, ok := targetStore(h.Sim.Params().Stores, body.StoreID)
	if !ok {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("store %d not found", *body.StoreID))
		return domain.SweepRequest{}, false
	}
	req.Store = store
	if body.Profile != "" {
		profile, builtin, err := h.Scenarios.ResolveProfile(r.Context(), body.Profile)
		if err != nil {
			writeServiceError(w, r, err)
			return domain.SweepRequest{}, false
		}
		req.Profile = profile
		req.Builtin = builtin
	}
	return req, true
}

func targetStore(stores []domain.DarkStore, id *int) (domain.DarkStore, bool) {
	if id == nil {
		if len(stores) == 0 {
			return services.DefaultSweepRequest().Store, true
		}
		return stores[0], true
	}
	for _, s := range stores {
		if s.ID == *id {
			return s, true
		}
	}
	return domain.DarkStore{}, false
}

// Run executes the sweep synchronously. ?format=csv|text returns the table
// instead of JSON.
func (h *OptimizeHandler) Run(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if r.URL.Query().Get("format") == "" {
		format = export.FormatJSON
	}

	req, ok := h.request(w, r)
	if !ok {
		return
	}

	report, err := h.Sweeps.Run(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	switch format {
	case export.FormatJSON:
		writeJSON(w, r, http.StatusOK, report)
	case export.FormatCSV:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="sweep.csv"`)
		if err := export.WriteSweep(w, report, format); err != nil {
			log.Warn().Err(err).Msg("export sweep failed")
		}
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := export.WriteSweep(w, report, format); err != nil {
			log.Warn().Err(err).Msg("export sweep failed")
		}
	}
}

// Submit enqueues the sweep and returns the job id for polling.
func (h *OptimizeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.Jobs == nil || h.Distributor == nil {
		writeError(w, r, http.StatusServiceUnavailable, "async sweeps require redis")
		return
	}

	req, ok := h.request(w, r)
	if !ok {
		return
	}

	job, err := worker.SubmitSweep(r.Context(), h.Jobs, h.Distributor, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/optimize/jobs/"+job.ID)
	writeJSON(w, r, http.StatusAccepted, dto.SweepJobResponse{ID: job.ID, Status: string(job.Status)})
}

func (h *OptimizeHandler) Job(w http.ResponseWriter, r *http.Request) {
	if h.Jobs == nil {
		writeError(w, r, http.StatusServiceUnavailable, "async sweeps require redis")
		return
	}

	job, err := h.Jobs.GetJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.SweepJobResponse{
		ID:     job.ID,
		Status: string(job.Status),
		Error:  job.Error,
		Report: job.Report,
	})
}
