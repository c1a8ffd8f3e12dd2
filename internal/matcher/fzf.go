package matcher

import (
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FZF scores with fzf's FuzzyMatchV2 (Smith-Waterman style, rewards
// contiguous runs and word-boundary hits).
type FZF struct{}

// NewFZF creates an fzf-backed matcher
func NewFZF() *FZF {
	return &FZF{}
}

// Match implements Matcher
func (m *FZF) Match(candidate, query string) (int, bool) {
	if query == "" {
		return 0, true
	}

	// fzf only folds ASCII case on its fast path, so both sides are lowered
	// here and matched case-sensitively.
	pattern := algo.NormalizeRunes([]rune(strings.ToLower(query)))
	chars := util.ToChars([]byte(strings.ToLower(candidate)))

	// A nil slab keeps the call free of shared state.
	result, _ := algo.FuzzyMatchV2(true, true, true, &chars, pattern, false, nil)
	if result.Start < 0 || result.Score <= 0 {
		return 0, false
	}

	return result.Score, true
}
