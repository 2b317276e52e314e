package validation

import (
	"errors"
	"net/url"
	"strings"
)

// ErrEmptyQuery is returned when a query is empty after normalization.
var ErrEmptyQuery = errors.New("no query provided")

// NormalizeQuery trims surrounding whitespace and lowercases a query so that
// history lookups are case-insensitive.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// RequireQuery normalizes a query and returns ErrEmptyQuery if nothing is left.
func RequireQuery(query string) (string, error) {
	q := NormalizeQuery(query)
	if q == "" {
		return "", ErrEmptyQuery
	}
	return q, nil
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	// Parse the URL
	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	// Check scheme - only allow http and https
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	// Ensure host is present
	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}
