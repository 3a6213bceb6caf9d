package handlers

import (
	"net/http"
	"strings"

	"darkstore-sim/internal/api/dto"
	"darkstore-sim/internal/services"
)

type AdvisoryHandler struct {
	Advisory *services.AdvisoryService
	Sim      *services.SimulationService
}

// Request starts an advisory completion for the current run. The result
// is fetched with Latest.
func (h *AdvisoryHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req dto.AdvisoryRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	prompt := services.BuildPrompt(h.Sim.Params(), h.Sim.Status(false))
	if q := strings.TrimSpace(req.Question); q != "" {
		prompt += "\nQuestion: " + q
	}

	if err := h.Advisory.Request(r.Context(), prompt); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, h.Advisory.Latest())
}

func (h *AdvisoryHandler) Latest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.Advisory.Latest())
}
