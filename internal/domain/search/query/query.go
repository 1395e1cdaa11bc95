// Package query normalizes raw free-text search input into the two
// shapes the engine needs: a display query for semantic lookup and
// response echo, and a tsquery prefix expression for keyword matching.
package query

import "strings"

// MinLength is the minimum number of significant characters a query
// must have before the engine touches the store or the embedding
// provider. Shorter queries short-circuit to an empty result; this is
// a hard boundary against index thrash on one/zero-character input,
// not an optimization.
const MinLength = 2

// minTokenLength drops noise tokens from the prefix expression.
const minTokenLength = 2

// tsquerySpecials are characters with meaning in the store's token
// syntax; they are stripped before tokenization.
const tsquerySpecials = "&|!():*<>"

// Query is a normalized search query.
type Query struct {
	display    string
	prefixExpr string
}

// Normalize trims the raw query and builds a prefix-match token
// expression: lowercase, strip tsquery specials, split on whitespace,
// drop tokens shorter than two characters, suffix each survivor with
// ":*" and join with the AND operator. PrefixExpr is empty when no
// token survives.
func Normalize(raw string) Query {
	display := strings.TrimSpace(raw)

	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(tsquerySpecials, r) {
			return ' '
		}
		return r
	}, strings.ToLower(display))

	var terms []string
	for _, tok := range strings.Fields(cleaned) {
		if len([]rune(tok)) < minTokenLength {
			continue
		}
		terms = append(terms, tok+":*")
	}

	return Query{
		display:    display,
		prefixExpr: strings.Join(terms, " & "),
	}
}

// Display returns the trimmed raw query.
func (q Query) Display() string { return q.display }

// PrefixExpr returns the tsquery prefix expression, empty if no token survived.
func (q Query) PrefixExpr() string { return q.prefixExpr }

// TooShort reports whether the query is below the minimum significant length.
func (q Query) TooShort() bool {
	return len([]rune(q.display)) < MinLength
}
