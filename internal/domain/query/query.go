// Package query splits a free-text search into positive and negative terms.
package query

import "strings"

// ExclusionMarker prefixes a term that must be excluded from the results.
const ExclusionMarker = "-"

// Query is a parsed search. Terms keep their order of appearance.
type Query struct {
	positive []string
	negative []string
}

// Parse splits raw on whitespace. A token starting with ExclusionMarker is
// negative (marker stripped); every other token is positive. Tokens that are
// empty after stripping are dropped.
func Parse(raw string) Query {
	var q Query
	for _, tok := range strings.Fields(raw) {
		if rest, ok := strings.CutPrefix(tok, ExclusionMarker); ok {
			if rest != "" {
				q.negative = append(q.negative, rest)
			}
			continue
		}
		q.positive = append(q.positive, tok)
	}
	return q
}

// Positive returns a copy of the included terms.
func (q Query) Positive() []string { return append([]string(nil), q.positive...) }

// Negative returns a copy of the excluded terms.
func (q Query) Negative() []string { return append([]string(nil), q.negative...) }

// IsEmpty reports whether the query has no terms at all.
func (q Query) IsEmpty() bool { return len(q.positive) == 0 && len(q.negative) == 0 }
