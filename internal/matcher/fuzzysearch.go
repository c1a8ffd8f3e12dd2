package matcher

import (
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// rankCeiling is the score given to a zero-distance (exact) match
const rankCeiling = 1000

// FuzzySearch scores with lithammer/fuzzysearch. The library reports a
// Levenshtein distance between query and candidate, so fewer extra
// characters means a better match.
type FuzzySearch struct{}

// NewFuzzySearch creates a fuzzysearch-backed matcher
func NewFuzzySearch() *FuzzySearch {
	return &FuzzySearch{}
}

// Match implements Matcher. Comparison is case- and diacritic-insensitive.
func (m *FuzzySearch) Match(candidate, query string) (int, bool) {
	if query == "" {
		return 0, true
	}

	distance := fuzzy.RankMatchNormalizedFold(query, candidate)
	if distance < 0 {
		return 0, false
	}

	return max(rankCeiling-distance, 1), true
}
