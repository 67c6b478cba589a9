package search

import "strings"

// Stop words ignored when checking for verbatim matches
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "how": true, "what": true, "does": true,
}

// terms returns the lowercased, punctuation-trimmed words of text minus stop words.
func terms(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))
	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}`*#_"))
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}
	return filtered
}

// queryTerms is the set of significant words of a query.
type queryTerms []string

func newQueryTerms(query string) queryTerms {
	return queryTerms(terms(query))
}

// matchedBy reports whether every query term appears in text.
// An empty term set matches nothing.
func (q queryTerms) matchedBy(text string) bool {
	if len(q) == 0 {
		return false
	}

	present := make(map[string]bool)
	for _, word := range terms(text) {
		present[word] = true
	}
	for _, term := range q {
		if !present[term] {
			return false
		}
	}
	return true
}
