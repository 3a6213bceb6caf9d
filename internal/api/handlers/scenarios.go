package handlers

import (
	"net/http"
	"strconv"

	"darkstore-sim/internal/api/dto"
	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/services"
	"darkstore-sim/internal/sim"

	"github.com/go-chi/chi/v5"
)

type ScenarioHandler struct {
	Scenarios *services.ScenarioService
}

// Save archives the live run's parameters and statistics.
func (h *ScenarioHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveScenarioRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	sc, err := h.Scenarios.SaveCurrent(r.Context(), req.Name, domain.ScenarioSourceManual)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, sc)
}

func (h *ScenarioHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	scenarios, err := h.Scenarios.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ListScenarioResponse{Scenarios: scenarios})
}

func (h *ScenarioHandler) Get(w http.ResponseWriter, r *http.Request) {
	sc, err := h.Scenarios.Get(r.Context(), chi.URLParam(r, "scenarioID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sc)
}

func (h *ScenarioHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.DemandProfile
	if !decodeJSON(w, r, &p, false) {
		return
	}

	if err := h.Scenarios.SaveProfile(r.Context(), p); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, p)
}

func (h *ScenarioHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Scenarios.ListProfiles(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ListProfileResponse{
		Builtin:  sim.BuiltinNames(),
		Profiles: profiles,
	})
}
