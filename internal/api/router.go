package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/meltinglava/enor-autorwy/internal/runway"
	"github.com/meltinglava/enor-autorwy/internal/selection"
	"github.com/meltinglava/enor-autorwy/internal/weather"
	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

// NewRouter builds the HTTP API router
func NewRouter(selectionService *selection.Service, weatherService *weather.Service, registry *runway.Registry, log *logger.Logger) chi.Router {
	handler := NewHandler(selectionService, weatherService, registry, log)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/decisions", handler.GetDecisions)
		r.Get("/decisions/{icao}", handler.GetDecision)
		r.Get("/decisions/{icao}/history", handler.GetDecisionHistory)
		r.Get("/metar/{icao}", handler.GetMETAR)
		r.Post("/refresh", handler.Refresh)
	})

	return r
}
