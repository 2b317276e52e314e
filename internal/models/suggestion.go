package models

// EnrichedResult is an encyclopedia search hit prepared for display.
type EnrichedResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	Image   string `json:"image"`
}

// SuggestResponse is the body of GET /suggest.
type SuggestResponse struct {
	Suggestions []string         `json:"suggestions"`
	Results     []EnrichedResult `json:"results"`
}

// EmptySuggestResponse returns a response with both lists present but empty,
// so they serialize as [] rather than null.
func EmptySuggestResponse() SuggestResponse {
	return SuggestResponse{
		Suggestions: []string{},
		Results:     []EnrichedResult{},
	}
}
