package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"searchrelay/internal/db"
	"searchrelay/internal/handlers"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(store db.Store, pipeline handlers.Suggester) {
	searchHandler := handlers.NewSearchHandler(store)
	suggestHandler := handlers.NewSuggestHandler(pipeline)
	probeHandler := handlers.NewProbeHandler(store)
	indexHandler := handlers.NewIndexHandler(s.Cfg.SiteTitle)

	s.App.Get("/", indexHandler.Show)
	s.App.Post("/search", searchHandler.Save)
	s.App.Get("/suggest", suggestHandler.Suggest)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
