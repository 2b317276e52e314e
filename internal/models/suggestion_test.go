package models

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestEmptySuggestResponse_SerializesArrays(t *testing.T) {
	data, err := json.Marshal(EmptySuggestResponse())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"suggestions":[],"results":[]}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
