package matcher

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Sahilm scores with sahilm/fuzzy, the Sublime Text style matcher
// (first-character, camel-case and separator bonuses).
type Sahilm struct{}

// NewSahilm creates a sahilm/fuzzy-backed matcher
func NewSahilm() *Sahilm {
	return &Sahilm{}
}

// Match implements Matcher. The library penalizes unmatched characters and
// often goes negative, so scores are offset by rankCeiling. Any match scores
// at least 1.
func (m *Sahilm) Match(candidate, query string) (int, bool) {
	if query == "" {
		return 0, true
	}

	matches := fuzzy.Find(strings.ToLower(query), []string{strings.ToLower(candidate)})
	if len(matches) == 0 {
		return 0, false
	}

	return max(rankCeiling+matches[0].Score, 1), true
}
