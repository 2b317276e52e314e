package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchrelay/internal/models"
	"searchrelay/internal/validation"
)

type fakeRecorder struct {
	saved []string
	err   error
}

func (f *fakeRecorder) RecordQuery(_ context.Context, query string) error {
	if _, err := validation.RequireQuery(query); err != nil {
		return err
	}
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, query)
	return nil
}

type fakeSuggester struct {
	got  string
	resp models.SuggestResponse
}

func (f *fakeSuggester) Suggest(_ context.Context, raw string) models.SuggestResponse {
	f.got = raw
	return f.resp
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func postJSON(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSearchHandler_Save(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		storeErr   error
		wantStatus int
		wantBody   string
	}{
		{"valid query", `{"query":"Rust Programming"}`, nil, 200, `{"message":"Query saved"}`},
		{"whitespace only", `{"query":"   "}`, nil, 400, `{"error":"No query provided"}`},
		{"missing field", `{}`, nil, 400, `{"error":"No query provided"}`},
		{"invalid json", `not json`, nil, 400, `{"error":"No query provided"}`},
		{"empty body", ``, nil, 400, `{"error":"No query provided"}`},
		{"store failure", `{"query":"rust"}`, errors.New("disk full"), 500, `{"error":"Failed to save query"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{err: tt.storeErr}
			app := fiber.New()
			app.Post("/search", NewSearchHandler(rec).Save)

			status, body := doRequest(t, app, postJSON(tt.body))
			assert.Equal(t, tt.wantStatus, status)
			assert.JSONEq(t, tt.wantBody, body)
		})
	}
}

func TestSearchHandler_SavePassesRawQuery(t *testing.T) {
	rec := &fakeRecorder{}
	app := fiber.New()
	app.Post("/search", NewSearchHandler(rec).Save)

	status, _ := doRequest(t, app, postJSON(`{"query":"  Go Modules "}`))
	require.Equal(t, 200, status)
	assert.Equal(t, []string{"  Go Modules "}, rec.saved)
}

func TestSuggestHandler_Suggest(t *testing.T) {
	sug := &fakeSuggester{resp: models.SuggestResponse{
		Suggestions: []string{"rust book"},
		Results: []models.EnrichedResult{
			{Title: "Rust", Snippet: "A language", URL: "https://en.wikipedia.org/wiki/Rust", Image: ""},
		},
	}}
	app := fiber.New()
	app.Get("/suggest", NewSuggestHandler(sug).Suggest)

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/suggest?q=Rust%20B", nil))
	require.Equal(t, 200, status)
	assert.Equal(t, "Rust B", sug.got)

	var got models.SuggestResponse
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, sug.resp, got)
}

func TestSuggestHandler_EmptyLists(t *testing.T) {
	sug := &fakeSuggester{resp: models.EmptySuggestResponse()}
	app := fiber.New()
	app.Get("/suggest", NewSuggestHandler(sug).Suggest)

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/suggest", nil))
	require.Equal(t, 200, status)
	assert.JSONEq(t, `{"suggestions":[],"results":[]}`, body)
}

func TestProbeHandler(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		pingErr    error
		wantStatus int
	}{
		{"liveness", "/healthz", nil, 200},
		{"liveness ignores store", "/healthz", errors.New("down"), 200},
		{"readiness ok", "/readyz", nil, 200},
		{"readiness store down", "/readyz", errors.New("down"), 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewProbeHandler(fakePinger{err: tt.pingErr})
			app := fiber.New()
			app.Get("/healthz", h.Liveness)
			app.Get("/readyz", h.Readiness)

			status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}
