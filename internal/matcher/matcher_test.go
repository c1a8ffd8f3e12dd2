package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		algo    string
		want    Matcher
		wantErr bool
	}{
		{name: "default", algo: "", want: &FZF{}},
		{name: "fzf", algo: "fzf", want: &FZF{}},
		{name: "mixed case", algo: " Sahilm ", want: &Sahilm{}},
		{name: "fuzzysearch", algo: "fuzzysearch", want: &FuzzySearch{}},
		{name: "unknown", algo: "skim", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.algo)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownAlgorithm)
				assert.Contains(t, err.Error(), "fuzzysearch, fzf, sahilm")
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, m)
		})
	}
}

func TestAlgorithms(t *testing.T) {
	assert.Equal(t, []string{"fuzzysearch", "fzf", "sahilm"}, Algorithms())
}

func TestMatchersContract(t *testing.T) {
	for _, name := range Algorithms() {
		m, err := New(name)
		require.NoError(t, err)

		t.Run(name+"/subsequence matches", func(t *testing.T) {
			for _, candidate := range []string{"Firefox", "Files"} {
				score, ok := m.Match(candidate, "fi")
				assert.True(t, ok, candidate)
				assert.Positive(t, score, candidate)
			}
		})

		t.Run(name+"/single scattered character scores above zero", func(t *testing.T) {
			score, ok := m.Match("Firefox", "x")
			assert.True(t, ok)
			assert.Positive(t, score)
		})

		t.Run(name+"/missing characters do not match", func(t *testing.T) {
			_, ok := m.Match("GIMP", "fi")
			assert.False(t, ok)

			_, ok = m.Match("Firefox", "zzz")
			assert.False(t, ok)
		})

		t.Run(name+"/out of order does not match", func(t *testing.T) {
			_, ok := m.Match("GIMP", "pg")
			assert.False(t, ok)
		})

		t.Run(name+"/case insensitive", func(t *testing.T) {
			lower, okLower := m.Match("firefox", "fire")
			upper, okUpper := m.Match("FIREFOX", "FiRe")
			assert.True(t, okLower)
			assert.True(t, okUpper)
			assert.Equal(t, lower, upper)
		})

		t.Run(name+"/deterministic", func(t *testing.T) {
			first, ok1 := m.Match("LibreOffice Writer", "low")
			_, _ = m.Match("Something else entirely", "xyz")
			second, ok2 := m.Match("LibreOffice Writer", "low")
			assert.Equal(t, ok1, ok2)
			assert.Equal(t, first, second)
		})

		t.Run(name+"/empty query matches everything", func(t *testing.T) {
			score, ok := m.Match("GIMP", "")
			assert.True(t, ok)
			assert.Zero(t, score)
		})
	}
}

func TestFZFPrefersContiguousMatches(t *testing.T) {
	m := NewFZF()

	contiguous, ok := m.Match("firefox", "fire")
	require.True(t, ok)
	scattered, ok := m.Match("fxixrxe", "fire")
	require.True(t, ok)

	assert.Greater(t, contiguous, scattered)
	assert.Positive(t, scattered)
}

func TestSahilmPrefersPrefixMatches(t *testing.T) {
	m := NewSahilm()

	prefix, ok := m.Match("Firefox", "fire")
	require.True(t, ok)
	scattered, ok := m.Match("Firefox", "fx")
	require.True(t, ok)

	assert.Greater(t, prefix, scattered)
	assert.Positive(t, scattered)
}

func TestFuzzySearchPrefersShorterCandidates(t *testing.T) {
	m := NewFuzzySearch()

	exact, ok := m.Match("Files", "files")
	require.True(t, ok)
	assert.Equal(t, rankCeiling, exact)

	files, _ := m.Match("Files", "fi")
	firefox, _ := m.Match("Firefox", "fi")
	assert.Equal(t, rankCeiling-3, files)
	assert.Equal(t, rankCeiling-5, firefox)
}

func TestFuzzySearchFoldsDiacritics(t *testing.T) {
	_, ok := NewFuzzySearch().Match("Éditeur de texte", "editeur")
	assert.True(t, ok)
}

func TestFunc(t *testing.T) {
	var calls int
	m := Func(func(candidate, query string) (int, bool) {
		calls++
		return len(candidate), candidate != query
	})

	score, ok := m.Match("abc", "x")
	assert.Equal(t, 3, score)
	assert.True(t, ok)
	assert.Equal(t, 1, calls)
}
