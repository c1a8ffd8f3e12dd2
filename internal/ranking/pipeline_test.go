package ranking

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/quantmind-br/gerard/internal/core"
	"github.com/quantmind-br/gerard/internal/logging"
	"github.com/quantmind-br/gerard/internal/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntries(t *testing.T, names ...string) []*core.Entry {
	t.Helper()

	entries := make([]*core.Entry, 0, len(names))
	for _, name := range names {
		e, err := core.NewEntry(name, "", core.LaunchTarget{Exec: strings.ToLower(name)})
		require.NoError(t, err)
		entries = append(entries, e)
	}
	return entries
}

func names(view []Result) []string {
	out := make([]string, 0, len(view))
	for _, r := range view {
		out = append(out, r.Entry.Name())
	}
	return out
}

// stubMatcher returns a fixed score per candidate; missing candidates don't match
func stubMatcher(scores map[string]int) matcher.Matcher {
	return matcher.Func(func(candidate, _ string) (int, bool) {
		s, ok := scores[candidate]
		return s, ok
	})
}

func TestNewShowsEverythingBeforeFirstQuery(t *testing.T) {
	entries := newEntries(t, "Firefox", "Files", "GIMP")
	p := New(matcher.NewFZF(), WithEntries(entries...))

	assert.Equal(t, []string{"Firefox", "Files", "GIMP"}, names(p.View()))
	assert.Equal(t, "", p.Query())
	assert.Equal(t, 3, p.Len())
}

func TestSetQueryScenarios(t *testing.T) {
	for _, algo := range matcher.Algorithms() {
		t.Run(algo, func(t *testing.T) {
			m, err := matcher.New(algo)
			require.NoError(t, err)
			p := New(m, WithEntries(newEntries(t, "Firefox", "Files", "GIMP")...))

			p.SetQuery("fi")
			got := names(p.View())
			assert.ElementsMatch(t, []string{"Firefox", "Files"}, got)
			assert.NotContains(t, got, "GIMP")

			p.SetQuery("")
			assert.Equal(t, []string{"Firefox", "Files", "GIMP"}, names(p.View()))

			p.SetQuery("zzz")
			assert.Empty(t, p.View())
		})
	}
}

func TestSetQueryFZFTieKeepsCollectionOrder(t *testing.T) {
	entries := newEntries(t, "Firefox", "Files", "GIMP")
	p := New(matcher.NewFZF(), WithEntries(entries...))

	p.SetQuery("fi")

	first, _ := p.Score(entries[0])
	second, _ := p.Score(entries[1])
	require.Equal(t, first, second)
	assert.Equal(t, []string{"Firefox", "Files"}, names(p.View()))
}

func TestTiesKeepCollectionOrder(t *testing.T) {
	entries := newEntries(t, "Firefox", "Files", "GIMP", "Fire", "Filezilla")
	p := New(stubMatcher(map[string]int{
		"Firefox":   10,
		"Files":     10,
		"Fire":      20,
		"Filezilla": 10,
	}), WithEntries(entries...))

	p.SetQuery("fi")

	assert.Equal(t, []string{"Fire", "Firefox", "Files", "Filezilla"}, names(p.View()))
}

func TestZeroScoreIsExcluded(t *testing.T) {
	entries := newEntries(t, "Firefox", "Files", "GIMP")
	p := New(stubMatcher(map[string]int{
		"Firefox": 0,
		"Files":   5,
		"GIMP":    -3,
	}), WithEntries(entries...))

	p.SetQuery("f")

	assert.Equal(t, []string{"Files"}, names(p.View()))
	score, ok := p.Score(entries[0])
	assert.True(t, ok)
	assert.Zero(t, score)
	score, _ = p.Score(entries[2])
	assert.LessOrEqual(t, score, 0)
}

func TestFilterCorrectness(t *testing.T) {
	m := matcher.NewFZF()
	entries := newEntries(t,
		"Firefox", "Files", "GIMP", "Terminal", "Text Editor", "LibreOffice Writer",
		"Thunderbird", "Visual Studio Code", "Settings", "System Monitor",
	)
	p := New(m, WithEntries(entries...))

	for _, q := range []string{"t", "te", "ter", "sys", "o", "code", "xyz", "ff", " "} {
		p.SetQuery(q)

		inView := make(map[*core.Entry]bool)
		for _, r := range p.View() {
			inView[r.Entry] = true
		}

		for _, e := range entries {
			score, ok := m.Match(e.Name(), q)
			want := ok && score > 0
			assert.Equal(t, want, inView[e], "query %q entry %q", q, e.Name())
		}
	}
}

func TestSortCorrectness(t *testing.T) {
	entries := newEntries(t,
		"Firefox", "Files", "Fire", "Filezilla", "File Roller", "Font Viewer", "Fish",
	)
	p := New(matcher.NewFZF(), WithEntries(entries...))
	index := make(map[*core.Entry]int)
	for i, e := range entries {
		index[e] = i
	}

	for _, q := range []string{"f", "fi", "fil", "fe", "r"} {
		p.SetQuery(q)
		view := p.View()
		for i := 1; i < len(view); i++ {
			prev, cur := view[i-1], view[i]
			require.GreaterOrEqual(t, prev.Score, cur.Score, "query %q", q)
			if prev.Score == cur.Score {
				assert.Less(t, index[prev.Entry], index[cur.Entry], "tie order for %q", q)
			}
		}
	}
}

func TestEmptyQueryIdentityAfterOtherQueries(t *testing.T) {
	entries := newEntries(t, "Firefox", "Files", "GIMP")
	p := New(matcher.NewFZF(), WithEntries(entries...))

	p.SetQuery("gimp")
	p.SetQuery("zzz")
	p.SetQuery("")

	view := p.View()
	require.Len(t, view, 3)
	for i, r := range view {
		assert.Same(t, entries[i], r.Entry)
		assert.Zero(t, r.Score)
		score, ok := p.Score(entries[i])
		assert.True(t, ok)
		assert.Zero(t, score)
	}
}

func TestIdempotence(t *testing.T) {
	p := New(matcher.NewFZF(), WithEntries(newEntries(t, "Firefox", "Files", "GIMP", "Fish")...))

	p.SetQuery("fi")
	first := append([]Result(nil), p.View()...)
	p.SetQuery("fi")

	assert.Equal(t, first, p.View())
}

func TestDeterminismIndependentOfHistory(t *testing.T) {
	build := func() *Pipeline {
		return New(matcher.NewFZF(), WithEntries(newEntries(t, "Firefox", "Files", "GIMP", "Fish", "Fire")...))
	}

	fresh := build()
	fresh.SetQuery("fi")

	replayed := build()
	for _, q := range []string{"g", "gi", "", "zzz", "f", "fil"} {
		replayed.SetQuery(q)
	}
	replayed.SetQuery("fi")

	assert.Equal(t, names(fresh.View()), names(replayed.View()))
	for i := range fresh.View() {
		assert.Equal(t, fresh.View()[i].Score, replayed.View()[i].Score)
	}
}

func TestDuplicatesAreKept(t *testing.T) {
	entries := newEntries(t, "Firefox", "Firefox")
	p := New(matcher.NewFZF(), WithEntries(entries...))

	p.SetQuery("fire")

	view := p.View()
	require.Len(t, view, 2)
	assert.Same(t, entries[0], view[0].Entry)
	assert.Same(t, entries[1], view[1].Entry)
}

func TestCapturedViewIsNotMutated(t *testing.T) {
	p := New(matcher.NewFZF(), WithEntries(newEntries(t, "Firefox", "Files", "GIMP")...))

	p.SetQuery("fi")
	captured := p.View()
	snapshot := append([]Result(nil), captured...)

	p.SetQuery("gimp")
	p.SetQuery("")

	assert.Equal(t, snapshot, captured)
}

func TestAddReappliesQuery(t *testing.T) {
	p := New(matcher.NewFZF(), WithEntries(newEntries(t, "Firefox", "GIMP")...))
	p.SetQuery("fi")
	require.Equal(t, []string{"Firefox"}, names(p.View()))

	p.Add(newEntries(t, "Files", "Inkscape")...)
	p.Add(nil)

	assert.Equal(t, 4, p.Len())
	assert.ElementsMatch(t, []string{"Firefox", "Files"}, names(p.View()))
	assert.Equal(t, "fi", p.Query())
}

func TestAddWithEmptyQueryKeepsInsertionOrder(t *testing.T) {
	p := New(matcher.NewFZF())
	assert.Empty(t, p.View())

	p.Add(newEntries(t, "Zed", "Atom")...)

	assert.Equal(t, []string{"Zed", "Atom"}, names(p.View()))
}

func TestSubscribersReceiveEachView(t *testing.T) {
	p := New(matcher.NewFZF(), WithEntries(newEntries(t, "Firefox", "Files", "GIMP")...))

	var published [][]string
	cancel := p.Subscribe(func(view []Result) {
		published = append(published, names(view))
	})

	p.SetQuery("gimp")
	p.SetQuery("")
	cancel()
	p.SetQuery("fi")

	require.Len(t, published, 2)
	assert.Equal(t, []string{"GIMP"}, published[0])
	assert.Equal(t, []string{"Firefox", "Files", "GIMP"}, published[1])
}

func TestSubscriberSeesCompleteView(t *testing.T) {
	p := New(matcher.NewFZF(), WithEntries(newEntries(t, "Firefox", "Files", "GIMP")...))

	p.Subscribe(func(view []Result) {
		// The pipeline has already swapped in the view it publishes.
		assert.Equal(t, view, p.View())
	})

	p.SetQuery("fi")
	p.SetQuery("")
}

func TestPanickingMatcherIsNoMatch(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewTestLogger(&buf)

	m := matcher.Func(func(candidate, _ string) (int, bool) {
		if candidate == "Broken" {
			panic(fmt.Sprintf("cannot decode %q", candidate))
		}
		return 1, true
	})
	p := New(m, WithLogger(log), WithEntries(newEntries(t, "Broken", "Fine")...))

	assert.NotPanics(t, func() { p.SetQuery("\xff\xfe") })
	assert.Equal(t, []string{"Fine"}, names(p.View()))
	assert.Contains(t, buf.String(), "matcher failed")
}

func TestSetQueryWithoutMatcherPanics(t *testing.T) {
	var p *Pipeline
	assert.Panics(t, func() { p.SetQuery("x") })

	assert.Panics(t, func() { New(nil).SetQuery("x") })
}

func TestTop(t *testing.T) {
	p := New(matcher.NewFZF(), WithEntries(newEntries(t, "Firefox", "Files", "GIMP")...))

	assert.Len(t, p.Top(0), 3)
	assert.Len(t, p.Top(2), 2)
	assert.Len(t, p.Top(10), 3)

	top := p.Top(1)
	top = append(top, Result{})
	assert.Len(t, p.View(), 3)
	assert.Equal(t, "Files", p.View()[1].Entry.Name())
}

func TestScoreUnknownEntry(t *testing.T) {
	p := New(matcher.NewFZF(), WithEntries(newEntries(t, "Firefox")...))
	other := newEntries(t, "Other")[0]

	_, ok := p.Score(other)
	assert.False(t, ok)
}

func TestEntriesReturnsCopy(t *testing.T) {
	entries := newEntries(t, "Firefox", "Files")
	p := New(matcher.NewFZF(), WithEntries(entries...))

	got := p.Entries()
	got[0] = nil

	assert.Same(t, entries[0], p.Entries()[0])
}
