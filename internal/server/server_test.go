package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchrelay/internal/config"
	"searchrelay/internal/db"
	"searchrelay/internal/metrics"
	"searchrelay/internal/models"
	"searchrelay/internal/providers"
	"searchrelay/internal/suggest"
	"searchrelay/internal/testutil"
)

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.Env = "test"
	cfg.SiteTitle = "Relay Test"
	return cfg
}

func newTestServer(t *testing.T, store db.Store, pipeline *suggest.Pipeline) *Server {
	t.Helper()
	s := New(testConfig())
	s.RegisterRoutes(store, pipeline)
	return s
}

func do(t *testing.T, s *Server, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := s.App.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func search(t *testing.T, s *Server, query string) int {
	t.Helper()
	payload, err := json.Marshal(models.SearchRequest{Query: query})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	status, _ := do(t, s, req)
	return status
}

func suggestFor(t *testing.T, s *Server, q string) models.SuggestResponse {
	t.Helper()
	status, body := do(t, s, httptest.NewRequest(http.MethodGet, "/suggest?q="+q, nil))
	require.Equal(t, http.StatusOK, status)

	var resp models.SuggestResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestSearchThenSuggest_RanksByCount(t *testing.T) {
	store := testutil.TestStore(t)
	s := newTestServer(t, store, suggest.New(store, nil))

	require.Equal(t, http.StatusOK, search(t, s, "rust book"))
	for range 3 {
		require.Equal(t, http.StatusOK, search(t, s, "Rust Programming"))
	}

	resp := suggestFor(t, s, "rust")
	assert.Equal(t, []string{"rust programming", "rust book"}, resp.Suggestions)
	assert.Empty(t, resp.Results)
	assert.NotNil(t, resp.Results)
}

func TestSearch_RejectsBlankQuery(t *testing.T) {
	store := testutil.TestStore(t)
	s := newTestServer(t, store, suggest.New(store, nil))

	assert.Equal(t, http.StatusBadRequest, search(t, s, "   "))

	all, err := store.AllQueries(t.Context())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSuggest_EmptyQuery(t *testing.T) {
	store := testutil.TestStore(t)
	prov := &testutil.StubProvider{Titles: []string{"never"}}
	s := newTestServer(t, store, suggest.New(store, nil, prov))

	status, body := do(t, s, httptest.NewRequest(http.MethodGet, "/suggest?q=%20%20", nil))
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"suggestions":[],"results":[]}`, string(body))
	assert.Empty(t, prov.Calls())
}

func TestSuggest_ProvidersFailing(t *testing.T) {
	store := testutil.TestStore(t)
	testutil.RecordQueries(t, store, "python tutorial")

	failing := &testutil.StubProvider{ProviderName: "wikipedia", Err: errors.New("connection refused")}
	s := newTestServer(t, store, suggest.New(store, nil, failing))

	// No substring match, so the fuzzy fallback supplies the suggestion.
	resp := suggestFor(t, s, "pythn%20tutorial")
	assert.Equal(t, []string{"python tutorial"}, resp.Suggestions)
	assert.Equal(t, []models.EnrichedResult{}, resp.Results)
}

func TestSuggest_MergesProvidersInOrder(t *testing.T) {
	store := testutil.TestStore(t)
	testutil.RecordQueries(t, store, "go generics")

	wiki := &testutil.StubProvider{ProviderName: "wikipedia", Titles: []string{"Go (programming language)", "go generics"}}
	trends := &testutil.StubProvider{ProviderName: "trends", Titles: []string{"Go board game"}}
	s := newTestServer(t, store, suggest.New(store, nil, wiki, trends))

	resp := suggestFor(t, s, "Go")
	assert.Equal(t, []string{"go generics", "Go (programming language)", "Go board game"}, resp.Suggestions)
	assert.Equal(t, []string{"go"}, wiki.Calls())
	assert.Equal(t, []string{"go"}, trends.Calls())
}

// fakeWikipedia serves the three API actions the client uses.
func fakeWikipedia(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case q.Get("action") == "opensearch":
			fmt.Fprintf(w, `[%q, ["Rust (programming language)", "Rust Belt"], [], []]`, q.Get("search"))
		case q.Get("list") == "search":
			fmt.Fprint(w, `{"query":{"search":[
				{"pageid":1,"title":"Rust (programming language)","snippet":"<span class=\"searchmatch\">Rust</span> is a language"},
				{"pageid":2,"title":"Rust Belt","snippet":"A region"}
			]}}`)
		case q.Get("prop") == "pageimages":
			fmt.Fprint(w, `{"query":{"pages":{
				"1":{"title":"Rust (programming language)","thumbnail":{"source":"https://img.example/rust.png"}},
				"2":{"title":"Rust Belt"}
			}}}`)
		default:
			http.Error(w, "unexpected request", http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fakeTrends(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `)]}',
{"default":{"topics":[{"mid":"/m/1","title":"Rust","type":"Topic"}]}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewPipeline_EndToEnd(t *testing.T) {
	wiki := fakeWikipedia(t)
	trends := fakeTrends(t)

	cfg := testConfig()
	cfg.Wikipedia.APIURL = wiki.URL + "/w/api.php"
	cfg.Wikipedia.ArticleURL = "https://en.wikipedia.org/wiki/"
	cfg.Trends.URL = trends.URL + "/trends/api/autocomplete/"

	store := testutil.TestStore(t)
	testutil.RecordQueries(t, store, "rust book")

	s := New(cfg)
	s.RegisterRoutes(store, NewPipeline(cfg, store))

	resp := suggestFor(t, s, "rust")
	assert.Equal(t, []string{"rust book", "Rust (programming language)", "Rust Belt", "Rust"}, resp.Suggestions)

	require.Len(t, resp.Results, 2)
	assert.Equal(t, models.EnrichedResult{
		Title:   "Rust (programming language)",
		Snippet: "Rust is a language",
		URL:     "https://en.wikipedia.org/wiki/Rust%20%28programming%20language%29",
		Image:   "https://img.example/rust.png",
	}, resp.Results[0])
	assert.Equal(t, "", resp.Results[1].Image)
}

func TestNewPipeline_ProvidersDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Wikipedia.Enabled = false
	cfg.Trends.Enabled = false
	cfg.Wikipedia.APIURL = "http://127.0.0.1:1/unreachable"

	store := testutil.TestStore(t)
	testutil.RecordQueries(t, store, "rust book")

	s := New(cfg)
	s.RegisterRoutes(store, NewPipeline(cfg, store))

	resp := suggestFor(t, s, "rust")
	assert.Equal(t, []string{"rust book"}, resp.Suggestions)
	assert.Equal(t, []models.EnrichedResult{}, resp.Results)
}

func TestProbesAndIndex(t *testing.T) {
	store := testutil.TestStore(t)
	s := newTestServer(t, store, suggest.New(store, nil))

	status, _ := do(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, s, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, status)

	status, body := do(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "<title>Relay Test</title>")
}

func TestMetricsEndpoint(t *testing.T) {
	store := testutil.TestStore(t)
	testutil.RecordQueries(t, store, "rust", "rust")
	metrics.Init(store, 10)

	prov := &testutil.StubProvider{ProviderName: "trends", Titles: []string{"Rust"}}
	s := newTestServer(t, store, suggest.New(store, nil, prov))
	suggestFor(t, s, "rust")

	status, body := do(t, s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `searchrelay_query_submissions_total{query="rust"} 2`)
	assert.Contains(t, string(body), `searchrelay_provider_requests_total{outcome="ok",provider="trends"}`)
}

func TestCORSPreflight(t *testing.T) {
	store := testutil.TestStore(t)
	s := newTestServer(t, store, suggest.New(store, nil))

	req := httptest.NewRequest(http.MethodOptions, "/suggest", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "GET")

	resp, err := s.App.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

var _ providers.Provider = (*testutil.StubProvider)(nil)
