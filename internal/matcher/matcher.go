// Package matcher provides the fuzzy scoring primitives used to rank launcher entries.
//
// Every Matcher is a pure function of (candidate, query): comparison is
// case-insensitive, a missing subsequence yields ok=false, and a better match
// yields a higher score. How "better" is judged is up to the algorithm.
package matcher

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Algorithm names accepted by New
const (
	AlgorithmFZF         = "fzf"
	AlgorithmSahilm      = "sahilm"
	AlgorithmFuzzySearch = "fuzzysearch"
)

// ErrUnknownAlgorithm is returned by New for unsupported algorithm names
var ErrUnknownAlgorithm = errors.New("unknown matcher algorithm")

// Matcher scores a candidate string against a query
type Matcher interface {
	// Match returns the match strength of query in candidate, or ok=false
	// when the query characters do not occur in candidate in order.
	Match(candidate, query string) (score int, ok bool)
}

// Func adapts a plain function to the Matcher interface
type Func func(candidate, query string) (int, bool)

// Match implements Matcher
func (f Func) Match(candidate, query string) (int, bool) {
	return f(candidate, query)
}

var constructors = map[string]func() Matcher{
	AlgorithmFZF:         func() Matcher { return NewFZF() },
	AlgorithmSahilm:      func() Matcher { return NewSahilm() },
	AlgorithmFuzzySearch: func() Matcher { return NewFuzzySearch() },
}

// New returns the matcher registered under name. An empty name selects fzf.
func New(name string) (Matcher, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = AlgorithmFZF
	}

	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownAlgorithm, name, strings.Join(Algorithms(), ", "))
	}

	return ctor(), nil
}

// Algorithms lists the supported algorithm names in sorted order
func Algorithms() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
