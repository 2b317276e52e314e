// Package fuzzy scores approximate string similarity on a 0-100 scale and
// extracts the best matches from a candidate pool.
package fuzzy

import (
	"math"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Defaults used by the suggestion fallback.
const (
	DefaultLimit  = 5
	DefaultCutoff = 60
)

// partialLengthRatio is how much longer one string must be than the other
// before substring alignment is considered.
const partialLengthRatio = 1.5

// partialWeight discounts partial alignments against whole-string ones.
const partialWeight = 0.9

// Match is a candidate with its similarity score.
type Match struct {
	Value string
	Score int
}

// Score returns the case-insensitive similarity of a and b in [0, 100].
// Empty input scores 0.
func Score(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	best := ratio(ra, rb)

	short, long := ra, rb
	if len(short) > len(long) {
		short, long = long, short
	}
	if float64(len(long))/float64(len(short)) >= partialLengthRatio {
		if p := partialRatio(short, long) * partialWeight; p > best {
			best = p
		}
	}

	return int(math.Round(best))
}

// ratio is the normalized Levenshtein similarity of two rune slices.
func ratio(a, b []rune) float64 {
	maxLen := max(len(a), len(b))
	dist := fuzzy.LevenshteinDistance(string(a), string(b))
	return 100 * (1 - float64(dist)/float64(maxLen))
}

// partialRatio is the best ratio of short against any window of long with
// the same length.
func partialRatio(short, long []rune) float64 {
	var best float64
	for i := 0; i+len(short) <= len(long); i++ {
		if r := ratio(short, long[i:i+len(short)]); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// Extract scores every candidate against query and returns those scoring at
// least cutoff, best first, at most limit. Equal scores keep candidate order.
func Extract(query string, candidates []string, limit, cutoff int) []Match {
	if limit <= 0 || query == "" {
		return nil
	}

	var matches []Match
	for _, c := range candidates {
		if s := Score(query, c); s >= cutoff {
			matches = append(matches, Match{Value: c, Score: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Values returns the matched strings in order.
func Values(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Value
	}
	return out
}
