// Package suggest blends local history, fuzzy matches and external
// providers into one autocomplete list.
package suggest

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"searchrelay/internal/fuzzy"
	"searchrelay/internal/models"
	"searchrelay/internal/providers"
	"searchrelay/internal/validation"
)

// MaxSuggestions caps the merged suggestion list.
const MaxSuggestions = 10

// History is the read side of the history store.
type History interface {
	RankMatches(ctx context.Context, prefix string, limit int) ([]string, error)
	AllQueries(ctx context.Context) ([]string, error)
}

// ResultEnricher produces display results for a query.
type ResultEnricher interface {
	Enrich(ctx context.Context, query string) []models.EnrichedResult
}

// Pipeline answers suggestion requests. Sources are merged in fixed
// priority: local history, fuzzy fallback, then providers in the order given.
type Pipeline struct {
	history     History
	enricher    ResultEnricher
	providers   []providers.Provider
	fuzzyLimit  int
	fuzzyCutoff int
}

// New creates a Pipeline. enricher may be nil to skip result enrichment.
func New(history History, enricher ResultEnricher, provs ...providers.Provider) *Pipeline {
	return &Pipeline{
		history:     history,
		enricher:    enricher,
		providers:   provs,
		fuzzyLimit:  fuzzy.DefaultLimit,
		fuzzyCutoff: fuzzy.DefaultCutoff,
	}
}

// Suggest normalizes raw and returns merged suggestions plus enriched
// results. An empty query returns empty lists without calling any source.
// All sources run concurrently; a failing source contributes nothing.
func (p *Pipeline) Suggest(ctx context.Context, raw string) models.SuggestResponse {
	resp := models.EmptySuggestResponse()

	q := validation.NormalizeQuery(raw)
	if q == "" {
		return resp
	}

	var (
		local    []string
		fallback []string
		external = make([][]string, len(p.providers))
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		local, fallback = p.localSuggestions(gctx, q)
		return nil
	})

	for i, prov := range p.providers {
		g.Go(func() error {
			external[i] = providers.Collect(gctx, prov, q)
			return nil
		})
	}

	if p.enricher != nil {
		g.Go(func() error {
			resp.Results = p.enricher.Enrich(gctx, q)
			return nil
		})
	}

	// Workers never return errors; each degrades on its own.
	_ = g.Wait()

	sources := make([][]string, 0, 2+len(external))
	sources = append(sources, local, fallback)
	sources = append(sources, external...)
	resp.Suggestions = Merge(MaxSuggestions, sources...)

	if resp.Results == nil {
		resp.Results = []models.EnrichedResult{}
	}
	return resp
}

// localSuggestions ranks history matches, falling back to fuzzy matching
// over all stored queries only when ranking finds nothing.
func (p *Pipeline) localSuggestions(ctx context.Context, q string) (local, fallback []string) {
	local, err := p.history.RankMatches(ctx, q, MaxSuggestions)
	if err != nil {
		slog.Error("local ranking failed", "query", q, "error", err)
		local = nil
	}
	if len(local) > 0 {
		return local, nil
	}

	all, err := p.history.AllQueries(ctx)
	if err != nil {
		slog.Error("loading fuzzy candidates failed", "query", q, "error", err)
		return nil, nil
	}

	return nil, fuzzy.Values(fuzzy.Extract(q, all, p.fuzzyLimit, p.fuzzyCutoff))
}

// Merge concatenates sources in order, keeps the first occurrence of each
// string and truncates to limit.
func Merge(limit int, sources ...[]string) []string {
	if limit <= 0 {
		return []string{}
	}

	out := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, src := range sources {
		for _, s := range src {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}
