package models

import "time"

// QueryRecord is one row of search history: a normalized query with its
// submission count and the time it was last submitted.
type QueryRecord struct {
	Query    string    `json:"query"`
	Count    int64     `json:"count"`
	LastSeen time.Time `json:"last_seen"`
}
