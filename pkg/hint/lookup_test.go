package hint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupQuery(t *testing.T) {
	hints, err := Assign(resolved(5), MustAlphabet("asdf"))
	require.NoError(t, err)
	// s d f aa as
	l := NewLookup(hints)
	require.Equal(t, 5, l.Len())

	testCases := []struct {
		description string
		typed       string
		kind        Kind
		ids         []int
	}{
		{"nothing typed", "", Partial, []int{0, 1, 2, 3, 4}},
		{"single-symbol code", "s", Exact, []int{0}},
		{"last single-symbol code", "f", Exact, []int{2}},
		{"shared prefix", "a", Partial, []int{3, 4}},
		{"two-symbol code", "as", Exact, []int{4}},
		{"unused symbol path", "ad", NoMatch, nil},
		{"past an exact code", "sa", NoMatch, nil},
		{"symbol outside alphabet", "x", NoMatch, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got := l.Query(tc.typed)
			assert.Equal(t, tc.kind, got.Kind)
			assert.Equal(t, tc.ids, got.IDs)
		})
	}
}

func TestLookupRoundTrip(t *testing.T) {
	for _, symbols := range alphabets {
		alphabet := MustAlphabet(symbols)
		for _, n := range []int{1, 2, 3, 7, 26, 27, 64, 100, 257} {
			hints, err := Assign(resolved(n), alphabet)
			require.NoError(t, err)
			l := NewLookup(hints)

			for _, h := range hints {
				res := l.Query(h.Code)
				id, ok := res.ID()
				require.True(t, ok, "code %q should be exact", h.Code)
				assert.Equal(t, h.MatchID, id)

				code := []rune(h.Code)
				for i := 1; i < len(code); i++ {
					prefix := string(code[:i])
					res := l.Query(prefix)
					require.Equal(t, Partial, res.Kind, "prefix %q of %q", prefix, h.Code)
					assert.Contains(t, res.IDs, h.MatchID)
					assert.GreaterOrEqual(t, len(res.IDs), 2, "a strict prefix always leaves several candidates")
				}

				got, ok := l.Code(h.MatchID)
				require.True(t, ok)
				assert.Equal(t, h.Code, got)
			}
		}
	}
}

func TestLookupEmpty(t *testing.T) {
	l := NewLookup(nil)
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, NoMatch, l.Query("").Kind)
	assert.Equal(t, NoMatch, l.Query("a").Kind)

	_, ok := l.Query("a").ID()
	assert.False(t, ok)
}

func TestLookupSkipsDuplicateCodes(t *testing.T) {
	l := NewLookup([]Hint{{MatchID: 0, Code: "a"}, {MatchID: 1, Code: "a"}})
	assert.Equal(t, 1, l.Len())
	id, ok := l.Query("a").ID()
	require.True(t, ok)
	assert.Equal(t, 0, id)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "no_match", NoMatch.String())
	assert.Equal(t, "partial", Partial.String())
	assert.Equal(t, "exact", Exact.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestAlphabet(t *testing.T) {
	a, err := NewAlphabet("asdf")
	require.NoError(t, err)
	assert.Equal(t, 4, a.Size())
	assert.Equal(t, 2, a.Index('d'))
	assert.Equal(t, -1, a.Index('z'))
	assert.Equal(t, "asdf", a.String())
	assert.Equal(t, "fad", a.spell([]int{3, 0, 2}))

	_, err = NewAlphabet("a")
	assert.ErrorIs(t, err, ErrAlphabetTooSmall)
	_, err = NewAlphabet("asa")
	assert.ErrorIs(t, err, ErrDuplicateSymbol)
	assert.Panics(t, func() { MustAlphabet("") })
}
