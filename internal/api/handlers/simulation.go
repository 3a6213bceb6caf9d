package handlers

import (
	"net/http"
	"strconv"

	"darkstore-sim/internal/api/dto"
	"darkstore-sim/internal/export"
	"darkstore-sim/internal/services"

	"github.com/rs/zerolog/log"
)

type SimulationHandler struct {
	Sim       *services.SimulationService
	Scenarios *services.ScenarioService
}

// Status returns the controller state and snapshot. ?orders=true includes
// the full order list.
func (h *SimulationHandler) Status(w http.ResponseWriter, r *http.Request) {
	includeOrders, _ := strconv.ParseBool(r.URL.Query().Get("orders"))
	writeJSON(w, r, http.StatusOK, h.Sim.Status(includeOrders))
}

func (h *SimulationHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.Sim.Start(); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.Sim.Status(false))
}

func (h *SimulationHandler) Pause(w http.ResponseWriter, r *http.Request) {
	if err := h.Sim.Pause(); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.Sim.Status(false))
}

func (h *SimulationHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Sim.Reset(); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.Sim.Status(false))
}

// Step advances a stopped or paused run by one tick.
func (h *SimulationHandler) Step(w http.ResponseWriter, r *http.Request) {
	res, err := h.Sim.Step()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Configure applies new parameters and re-initializes the run. Refused
// with 409 while running.
func (h *SimulationHandler) Configure(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfigRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	p := req.Apply(h.Sim.Params())
	if req.Profile != "" {
		profile, builtin, err := h.Scenarios.ResolveProfile(r.Context(), req.Profile)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		p.Profile = profile
		if builtin != "" {
			p.Builtin = builtin
		}
	}

	if err := h.Sim.Configure(p); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.Sim.Status(false))
}

func (h *SimulationHandler) Orders(w http.ResponseWriter, r *http.Request) {
	rows := export.OrderRows(h.Sim.Status(true).Snapshot.Orders)

	res := dto.OrdersResponse{Orders: make([]dto.OrderResponse, 0, len(rows))}
	for _, o := range rows {
		res.Orders = append(res.Orders, dto.OrderResponse(o))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// ExportOrders streams every order as CSV.
func (h *SimulationHandler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.Sim.Status(true).Snapshot.Orders

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)
	if err := export.WriteOrdersCSV(w, orders); err != nil {
		log.Warn().Err(err).Msg("export orders failed")
	}
}
