package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchrelay/internal/models"
	"searchrelay/internal/providers"
)

type fakeSource struct {
	hits       []providers.SearchHit
	searchErr  error
	images     map[string]string
	thumbErr   error
	thumbCalls [][]string
}

func (f *fakeSource) Name() string { return "wikipedia" }

func (f *fakeSource) Search(context.Context, string) ([]providers.SearchHit, error) {
	return f.hits, f.searchErr
}

func (f *fakeSource) Thumbnails(_ context.Context, titles []string) (map[string]string, error) {
	f.thumbCalls = append(f.thumbCalls, titles)
	return f.images, f.thumbErr
}

func TestEnrich(t *testing.T) {
	src := &fakeSource{
		hits: []providers.SearchHit{
			{Title: "Python (programming language)", Snippet: `<span class="searchmatch">Python</span> is a high-level language`},
			{Title: "Monty Python", Snippet: `British comedy troupe &amp; <span class="searchmatch">python</span> fans`},
		},
		images: map[string]string{
			"Python (programming language)": "https://upload.example/python.png",
		},
	}
	e := New(src, "https://en.wikipedia.org/wiki/")

	got := e.Enrich(context.Background(), "python")

	assert.Equal(t, []models.EnrichedResult{
		{
			Title:   "Python (programming language)",
			Snippet: "Python is a high-level language",
			URL:     "https://en.wikipedia.org/wiki/Python%20%28programming%20language%29",
			Image:   "https://upload.example/python.png",
		},
		{
			Title:   "Monty Python",
			Snippet: "British comedy troupe & python fans",
			URL:     "https://en.wikipedia.org/wiki/Monty%20Python",
			Image:   "",
		},
	}, got)
	require.Len(t, src.thumbCalls, 1)
	assert.Equal(t, []string{"Python (programming language)", "Monty Python"}, src.thumbCalls[0])
}

func TestEnrich_SearchFailure(t *testing.T) {
	src := &fakeSource{searchErr: errors.New("timeout")}

	got := New(src, "").Enrich(context.Background(), "python")
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, src.thumbCalls)
}

func TestEnrich_NoHitsSkipsThumbnails(t *testing.T) {
	src := &fakeSource{}

	got := New(src, "").Enrich(context.Background(), "zzzz")
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, src.thumbCalls, "thumbnail endpoint must not be called without hits")
}

func TestEnrich_ThumbnailFailureKeepsResults(t *testing.T) {
	src := &fakeSource{
		hits:     []providers.SearchHit{{Title: "Rust", Snippet: "metal"}},
		thumbErr: errors.New("503"),
	}

	got := New(src, "").Enrich(context.Background(), "rust")
	require.Len(t, got, 1)
	assert.Equal(t, "Rust", got[0].Title)
	assert.Equal(t, "", got[0].Image)
	assert.Equal(t, providers.DefaultWikipediaArticleURL+"Rust", got[0].URL)
}

func TestEnrich_CapsResults(t *testing.T) {
	src := &fakeSource{}
	for i := 0; i < 8; i++ {
		src.hits = append(src.hits, providers.SearchHit{Title: string(rune('A' + i))})
	}

	got := New(src, "").Enrich(context.Background(), "letters")
	assert.Len(t, got, MaxResults)
	assert.Len(t, src.thumbCalls[0], MaxResults)
}

func TestQuoteTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Rust", "Rust"},
		{"Monty Python", "Monty%20Python"},
		{"AC/DC", "AC/DC"},
		{"C++", "C%2B%2B"},
		{"Café", "Caf%C3%A9"},
		{"a_b-c.d~e", "a_b-c.d~e"},
		{"Q&A?", "Q%26A%3F"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteTitle(tt.title))
		})
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "no markup here", "no markup here"},
		{"searchmatch", `the <span class="searchmatch">rust</span> book`, "the rust book"},
		{"entities", "fish &amp; chips &quot;daily&quot;", `fish & chips "daily"`},
		{"nested", "<b><i>deep</i></b> text", "deep text"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkup(tt.in))
		})
	}
}
