package models

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query string `json:"query"`
}

// MessageResponse is a plain success message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is a plain error message.
type ErrorResponse struct {
	Error string `json:"error"`
}
