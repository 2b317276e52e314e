// Package enrich turns encyclopedia search hits into display results with
// plain-text snippets, article links and thumbnails.
package enrich

import (
	"context"
	"log/slog"
	"strings"

	"searchrelay/internal/metrics"
	"searchrelay/internal/models"
	"searchrelay/internal/providers"
)

// MaxResults caps the number of enriched results.
const MaxResults = 5

// Source is the encyclopedia API the enricher reads from.
type Source interface {
	Name() string
	Search(ctx context.Context, query string) ([]providers.SearchHit, error)
	Thumbnails(ctx context.Context, titles []string) (map[string]string, error)
}

// Enricher builds EnrichedResults for a query.
type Enricher struct {
	source     Source
	articleURL string
}

// New creates an Enricher. articleURL is the prefix article titles are
// appended to, e.g. "https://en.wikipedia.org/wiki/".
func New(source Source, articleURL string) *Enricher {
	if articleURL == "" {
		articleURL = providers.DefaultWikipediaArticleURL
	}
	return &Enricher{source: source, articleURL: articleURL}
}

// Enrich searches for query and returns up to MaxResults results in the
// source's relevance order. Failures yield an empty slice; a failed
// thumbnail lookup only drops the images.
func (e *Enricher) Enrich(ctx context.Context, query string) []models.EnrichedResult {
	results := []models.EnrichedResult{}

	hits, err := e.source.Search(ctx, query)
	if err != nil {
		slog.Warn("encyclopedia search failed", "provider", e.source.Name(), "query", query, "error", err)
		metrics.RecordProviderOutcome(e.source.Name()+"_search", metrics.OutcomeError)
		return results
	}
	if len(hits) == 0 {
		metrics.RecordProviderOutcome(e.source.Name()+"_search", metrics.OutcomeEmpty)
		return results
	}
	metrics.RecordProviderOutcome(e.source.Name()+"_search", metrics.OutcomeOK)

	if len(hits) > MaxResults {
		hits = hits[:MaxResults]
	}

	titles := make([]string, len(hits))
	for i, h := range hits {
		titles[i] = h.Title
	}

	images, err := e.source.Thumbnails(ctx, titles)
	if err != nil {
		slog.Warn("thumbnail lookup failed", "provider", e.source.Name(), "titles", len(titles), "error", err)
		metrics.RecordProviderOutcome(e.source.Name()+"_thumbnails", metrics.OutcomeError)
		images = nil
	} else {
		metrics.RecordProviderOutcome(e.source.Name()+"_thumbnails", metrics.OutcomeOK)
	}

	for _, h := range hits {
		results = append(results, models.EnrichedResult{
			Title:   h.Title,
			Snippet: StripMarkup(h.Snippet),
			URL:     e.articleURL + QuoteTitle(h.Title),
			Image:   images[h.Title],
		})
	}
	return results
}

// QuoteTitle percent-encodes an article title for use in a URL path,
// leaving unreserved characters and "/" intact.
func QuoteTitle(title string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(title))
	for i := 0; i < len(title); i++ {
		c := title[i]
		if isUnreserved(c) || c == '/' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}
