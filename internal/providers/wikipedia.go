package providers

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Wikipedia defaults.
const (
	DefaultWikipediaAPIURL     = "https://en.wikipedia.org/w/api.php"
	DefaultWikipediaArticleURL = "https://en.wikipedia.org/wiki/"
	DefaultThumbnailSize       = 100
	DefaultSuggestTimeout      = 2 * time.Second
	DefaultSearchTimeout       = 3 * time.Second
)

// WikipediaOptions configures a WikipediaClient. Zero values take defaults.
type WikipediaOptions struct {
	APIURL         string
	UserAgent      string
	SuggestLimit   int
	SearchLimit    int
	ThumbnailSize  int
	SuggestTimeout time.Duration
	SearchTimeout  time.Duration
}

func (o *WikipediaOptions) setDefaults() {
	if o.APIURL == "" {
		o.APIURL = DefaultWikipediaAPIURL
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.SuggestLimit <= 0 {
		o.SuggestLimit = DefaultLimit
	}
	if o.SearchLimit <= 0 {
		o.SearchLimit = DefaultLimit
	}
	if o.ThumbnailSize <= 0 {
		o.ThumbnailSize = DefaultThumbnailSize
	}
	if o.SuggestTimeout <= 0 {
		o.SuggestTimeout = DefaultSuggestTimeout
	}
	if o.SearchTimeout <= 0 {
		o.SearchTimeout = DefaultSearchTimeout
	}
}

// WikipediaClient talks to the MediaWiki action API: opensearch for title
// suggestions, list=search for full-text hits and prop=pageimages for
// thumbnails.
type WikipediaClient struct {
	opts  WikipediaOptions
	fetch *fetcher
}

// NewWikipedia creates a Wikipedia client.
func NewWikipedia(opts WikipediaOptions) *WikipediaClient {
	opts.setDefaults()
	return &WikipediaClient{
		opts: opts,
		fetch: &fetcher{
			provider:  "wikipedia",
			client:    newHTTPClient(opts.SuggestTimeout),
			userAgent: opts.UserAgent,
		},
	}
}

// Name identifies the provider in logs and metrics.
func (w *WikipediaClient) Name() string {
	return "wikipedia"
}

// Suggest returns up to SuggestLimit article titles from opensearch,
// restricted to the main namespace.
func (w *WikipediaClient) Suggest(ctx context.Context, query string) ([]string, error) {
	const op = "opensearch"

	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", query)
	params.Set("limit", strconv.Itoa(w.opts.SuggestLimit))
	params.Set("namespace", "0")
	params.Set("format", "json")

	body, err := w.fetch.get(ctx, op, w.opts.APIURL, params, w.opts.SuggestTimeout)
	if err != nil {
		return nil, err
	}

	// [query, [titles...], [descriptions...], [urls...]]
	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		return nil, w.fetch.malformed(op, err)
	}
	if len(parts) < 2 {
		return nil, w.fetch.malformed(op, errTooShort)
	}

	var titles []string
	if err := json.Unmarshal(parts[1], &titles); err != nil {
		return nil, w.fetch.malformed(op, err)
	}
	return capTitles(titles, w.opts.SuggestLimit), nil
}

// SearchHit is one full-text search result. Snippet carries the provider's
// highlighting markup.
type SearchHit struct {
	PageID  int    `json:"pageid"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type searchResponse struct {
	Query struct {
		Search []SearchHit `json:"search"`
	} `json:"query"`
}

// Search runs a full-text search and returns hits in relevance order.
func (w *WikipediaClient) Search(ctx context.Context, query string) ([]SearchHit, error) {
	const op = "search"

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(w.opts.SearchLimit))
	params.Set("format", "json")

	body, err := w.fetch.get(ctx, op, w.opts.APIURL, params, w.opts.SearchTimeout)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, w.fetch.malformed(op, err)
	}

	hits := resp.Query.Search
	if len(hits) > w.opts.SearchLimit {
		hits = hits[:w.opts.SearchLimit]
	}
	return hits, nil
}

type pageImagesResponse struct {
	Query struct {
		Normalized []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"normalized"`
		Pages map[string]struct {
			Title     string `json:"title"`
			Thumbnail *struct {
				Source string `json:"source"`
			} `json:"thumbnail"`
		} `json:"pages"`
	} `json:"query"`
}

// Thumbnails looks up thumbnail URLs for all titles in a single request.
// Titles without an image are absent from the returned map.
func (w *WikipediaClient) Thumbnails(ctx context.Context, titles []string) (map[string]string, error) {
	const op = "pageimages"

	images := make(map[string]string)
	if len(titles) == 0 {
		return images, nil
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "pageimages")
	params.Set("titles", strings.Join(titles, "|"))
	params.Set("pithumbsize", strconv.Itoa(w.opts.ThumbnailSize))
	params.Set("pilimit", strconv.Itoa(len(titles)))
	params.Set("format", "json")

	body, err := w.fetch.get(ctx, op, w.opts.APIURL, params, w.opts.SearchTimeout)
	if err != nil {
		return nil, err
	}

	var resp pageImagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, w.fetch.malformed(op, err)
	}

	for _, page := range resp.Query.Pages {
		if page.Thumbnail != nil && page.Thumbnail.Source != "" {
			images[page.Title] = page.Thumbnail.Source
		}
	}
	// Requested titles the API rewrote still resolve to their image.
	for _, n := range resp.Query.Normalized {
		if src, ok := images[n.To]; ok {
			images[n.From] = src
		}
	}
	return images, nil
}
