package server

import (
	"log/slog"

	"searchrelay/internal/config"
	"searchrelay/internal/enrich"
	"searchrelay/internal/providers"
	"searchrelay/internal/suggest"
)

// NewPipeline wires the suggestion pipeline from configuration: the history
// store first, then Wikipedia, then Google Trends.
func NewPipeline(cfg *config.Config, history suggest.History) *suggest.Pipeline {
	var (
		provs    []providers.Provider
		enricher suggest.ResultEnricher
	)

	if cfg.Wikipedia.Enabled {
		wiki := providers.NewWikipedia(cfg.WikipediaOptions())
		provs = append(provs, wiki)
		enricher = enrich.New(wiki, cfg.Wikipedia.ArticleURL)
	} else {
		slog.Info("wikipedia provider disabled")
	}

	if cfg.Trends.Enabled {
		provs = append(provs, providers.NewTrends(cfg.TrendsOptions()))
	} else {
		slog.Info("trends provider disabled")
	}

	return suggest.New(history, enricher, provs...)
}
