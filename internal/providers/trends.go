package providers

import (
	"bytes"
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// Google Trends defaults.
const (
	DefaultTrendsURL         = "https://trends.google.com/trends/api/autocomplete/"
	DefaultTrendsLanguage    = "en-US"
	DefaultTrendsTimezone    = 360
	DefaultTrendsTimeout     = 5 * time.Second
	DefaultTrendsDialTimeout = 2 * time.Second
)

// TrendsOptions configures a TrendsClient. Zero values take defaults.
type TrendsOptions struct {
	BaseURL     string
	Language    string
	Timezone    int
	UserAgent   string
	Limit       int
	Timeout     time.Duration
	DialTimeout time.Duration
}

func (o *TrendsOptions) setDefaults() {
	if o.BaseURL == "" {
		o.BaseURL = DefaultTrendsURL
	}
	if o.Language == "" {
		o.Language = DefaultTrendsLanguage
	}
	if o.Timezone == 0 {
		o.Timezone = DefaultTrendsTimezone
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTrendsTimeout
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = DefaultTrendsDialTimeout
	}
}

// TrendsClient fetches keyword suggestions from the Google Trends
// autocomplete endpoint.
type TrendsClient struct {
	opts  TrendsOptions
	fetch *fetcher
}

// NewTrends creates a Google Trends client.
func NewTrends(opts TrendsOptions) *TrendsClient {
	opts.setDefaults()
	return &TrendsClient{
		opts: opts,
		fetch: &fetcher{
			provider:  "trends",
			client:    newHTTPClient(opts.DialTimeout),
			userAgent: opts.UserAgent,
		},
	}
}

// Name identifies the provider in logs and metrics.
func (t *TrendsClient) Name() string {
	return "trends"
}

type trendsResponse struct {
	Default struct {
		Topics []struct {
			MID   string `json:"mid"`
			Title string `json:"title"`
			Type  string `json:"type"`
		} `json:"topics"`
	} `json:"default"`
}

// Suggest returns up to Limit topic titles for the keyword.
func (t *TrendsClient) Suggest(ctx context.Context, query string) ([]string, error) {
	const op = "autocomplete"

	params := url.Values{}
	params.Set("hl", t.opts.Language)
	params.Set("tz", strconv.Itoa(t.opts.Timezone))

	body, err := t.fetch.get(ctx, op, t.opts.BaseURL+url.PathEscape(query), params, t.opts.Timeout)
	if err != nil {
		return nil, err
	}

	// The body starts with an anti-hijacking prefix such as ")]}',".
	if i := bytes.IndexByte(body, '{'); i > 0 {
		body = body[i:]
	}

	var resp trendsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, t.fetch.malformed(op, err)
	}

	titles := make([]string, 0, len(resp.Default.Topics))
	for _, topic := range resp.Default.Topics {
		if topic.Title != "" {
			titles = append(titles, topic.Title)
		}
	}
	return capTitles(titles, t.opts.Limit), nil
}
