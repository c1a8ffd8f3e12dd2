// Package ranking maintains the filtered, relevance-ordered view of launcher
// entries for the current query.
//
// A Pipeline is not safe for concurrent use. It is driven from a single
// goroutine (the one owning the UI loop); every published view is a fresh
// slice that is never written again, so a consumer holding an old view keeps
// a consistent snapshot.
package ranking

import (
	"sort"

	"github.com/quantmind-br/gerard/internal/core"
	"github.com/quantmind-br/gerard/internal/matcher"
	"github.com/rs/zerolog"
)

// neutralScore is assigned to every entry for the empty query and to non-matches
const neutralScore = 0

// Result pairs an entry with the score it got for the current query
type Result struct {
	Entry *core.Entry `json:"-"`
	Score int         `json:"score"`
}

// Pipeline owns the authoritative entry collection and derives the ordered view
type Pipeline struct {
	matcher     matcher.Matcher
	log         *zerolog.Logger
	entries     []*core.Entry
	scores      map[*core.Entry]int
	query       string
	view        []Result
	subscribers map[int]func([]Result)
	nextSubID   int
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger used for debug output
func WithLogger(log *zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithEntries seeds the collection
func WithEntries(entries ...*core.Entry) Option {
	return func(p *Pipeline) {
		p.entries = appendNonNil(p.entries, entries)
	}
}

// New creates a pipeline around m. Until the first SetQuery the view holds
// every entry in insertion order.
func New(m matcher.Matcher, opts ...Option) *Pipeline {
	nop := zerolog.Nop()
	p := &Pipeline{
		matcher:     m,
		log:         &nop,
		scores:      make(map[*core.Entry]int),
		subscribers: make(map[int]func([]Result)),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.view = p.unranked()
	return p
}

// Add appends entries to the collection and re-applies the current query so
// the view stays consistent with the collection. Nil entries are ignored.
func (p *Pipeline) Add(entries ...*core.Entry) {
	before := len(p.entries)
	p.entries = appendNonNil(p.entries, entries)
	if len(p.entries) == before {
		return
	}
	p.SetQuery(p.query)
}

// SetQuery rescores every entry against query and publishes the new view.
// It accepts any text and never fails; a query that matches nothing yields
// an empty view.
func (p *Pipeline) SetQuery(query string) {
	if p == nil || p.matcher == nil {
		panic("ranking: SetQuery called on a pipeline without a matcher")
	}

	p.query = query

	var view []Result
	if query == "" {
		view = p.unranked()
	} else {
		view = p.rank(query)
	}

	p.view = view

	p.log.Debug().
		Str("query", query).
		Int("entries", len(p.entries)).
		Int("matches", len(view)).
		Msg("ranked entries")

	p.publish(view)
}

// unranked resets every score and returns the whole collection in insertion order
func (p *Pipeline) unranked() []Result {
	view := make([]Result, len(p.entries))
	for i, e := range p.entries {
		p.scores[e] = neutralScore
		view[i] = Result{Entry: e, Score: neutralScore}
	}
	return view
}

func (p *Pipeline) rank(query string) []Result {
	view := make([]Result, 0, len(p.entries))
	for _, e := range p.entries {
		score := p.score(e, query)
		p.scores[e] = score
		// Found-but-zero is treated the same as not found.
		if score > neutralScore {
			view = append(view, Result{Entry: e, Score: score})
		}
	}

	// Stable so equal scores keep collection order and rows don't jitter
	// between keystrokes.
	sort.SliceStable(view, func(i, j int) bool {
		return view[i].Score > view[j].Score
	})

	return view
}

// score runs the matcher, treating a panic inside it as "no match"
func (p *Pipeline) score(e *core.Entry, query string) (score int) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn().
				Str("entry", e.Name()).
				Str("query", query).
				Interface("panic", r).
				Msg("matcher failed, treating as no match")
			score = neutralScore
		}
	}()

	s, ok := p.matcher.Match(e.Name(), query)
	if !ok {
		return neutralScore
	}
	return s
}

func (p *Pipeline) publish(view []Result) {
	if len(p.subscribers) == 0 {
		return
	}

	ids := make([]int, 0, len(p.subscribers))
	for id := range p.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		p.subscribers[id](view)
	}
}

// Subscribe registers fn to receive every published view. The returned
// function removes the subscription.
func (p *Pipeline) Subscribe(fn func([]Result)) (cancel func()) {
	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = fn

	return func() {
		delete(p.subscribers, id)
	}
}

// Query returns the most recently applied query
func (p *Pipeline) Query() string {
	return p.query
}

// View returns the current ordered view. Callers must not modify it.
func (p *Pipeline) View() []Result {
	return p.view
}

// Top returns at most n results from the head of the view. n <= 0 means all.
func (p *Pipeline) Top(n int) []Result {
	if n <= 0 || n >= len(p.view) {
		return p.view
	}
	return p.view[:n:n]
}

// Entries returns a copy of the authoritative collection in insertion order
func (p *Pipeline) Entries() []*core.Entry {
	return append([]*core.Entry(nil), p.entries...)
}

// Len returns the size of the authoritative collection
func (p *Pipeline) Len() int {
	return len(p.entries)
}

// Score returns the score e received in the most recent pass. ok is false
// when e is not part of the collection.
func (p *Pipeline) Score(e *core.Entry) (score int, ok bool) {
	score, ok = p.scores[e]
	return score, ok
}

func appendNonNil(dst, src []*core.Entry) []*core.Entry {
	for _, e := range src {
		if e != nil {
			dst = append(dst, e)
		}
	}
	return dst
}
