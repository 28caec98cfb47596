// Package api exposes the latest runway decisions and METAR data over
// HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meltinglava/enor-autorwy/internal/runway"
	"github.com/meltinglava/enor-autorwy/internal/selection"
	"github.com/meltinglava/enor-autorwy/internal/weather"
	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

// Handler contains the API handlers
type Handler struct {
	selectionService *selection.Service
	weatherService   *weather.Service
	registry         *runway.Registry
	logger           *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(selectionService *selection.Service, weatherService *weather.Service, registry *runway.Registry, log *logger.Logger) *Handler {
	return &Handler{
		selectionService: selectionService,
		weatherService:   weatherService,
		registry:         registry,
		logger:           log.Named("api-handler"),
	}
}

// decisionsResponse wraps the decisions of one run
type decisionsResponse struct {
	Decisions []runway.Decision `json:"decisions"`
	RanAt     time.Time         `json:"ran_at"`
}

// GetDecisions returns the decisions from the most recent run
func (h *Handler) GetDecisions(w http.ResponseWriter, r *http.Request) {
	decisions, ranAt := h.selectionService.Latest()
	if decisions == nil {
		http.Error(w, "No update run has completed yet", http.StatusServiceUnavailable)
		return
	}
	WriteJSON(w, http.StatusOK, decisionsResponse{Decisions: decisions, RanAt: ranAt})
}

// GetDecision returns the latest decision for one airport
func (h *Handler) GetDecision(w http.ResponseWriter, r *http.Request) {
	icao := chi.URLParam(r, "icao")
	if icao == "" {
		http.Error(w, "Missing airport code", http.StatusBadRequest)
		return
	}

	decision, found := h.selectionService.LatestFor(icao)
	if !found {
		http.Error(w, "No decision for airport", http.StatusNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, decision)
}

// GetDecisionHistory returns stored decisions for one airport
func (h *Handler) GetDecisionHistory(w http.ResponseWriter, r *http.Request) {
	icao := chi.URLParam(r, "icao")
	if icao == "" {
		http.Error(w, "Missing airport code", http.StatusBadRequest)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := h.selectionService.History(icao, limit)
	if err != nil {
		h.logger.Error("Failed to load decision history",
			logger.String("airport", icao),
			logger.Error(err))
		http.Error(w, "Decision history unavailable", http.StatusInternalServerError)
		return
	}
	WriteJSON(w, http.StatusOK, records)
}

// GetMETAR returns the current parsed METAR for one airport
func (h *Handler) GetMETAR(w http.ResponseWriter, r *http.Request) {
	icao := chi.URLParam(r, "icao")
	if icao == "" {
		http.Error(w, "Missing airport code", http.StatusBadRequest)
		return
	}
	if _, known := h.registry.Get(icao); !known {
		http.Error(w, "Unknown airport", http.StatusNotFound)
		return
	}

	report, found := h.weatherService.Report(icao)
	if !found {
		http.Error(w, "No METAR available", http.StatusNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// Refresh invalidates the weather cache and triggers a new update run
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.logger.Info("Manual refresh triggered")

	decisions, err := h.selectionService.Refresh()
	if err != nil {
		h.logger.Error("Refresh run failed", logger.Error(err))
		http.Error(w, "Refresh failed", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Manual refresh completed",
		logger.Int("decisions", len(decisions)),
		logger.Duration("duration", time.Since(start)))
	WriteJSON(w, http.StatusOK, decisionsResponse{Decisions: decisions, RanAt: start})
}

// WriteJSON writes data as a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
