package enrich

import (
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup removes every tag from an HTML fragment, such as the
// <span class="searchmatch"> highlights in search snippets, and unescapes
// entities, leaving plain text.
func StripMarkup(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
