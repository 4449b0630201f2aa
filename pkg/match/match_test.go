package match

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bastiangx/hintserve/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietScanner() *Scanner {
	return NewScanner(logger.Discard())
}

func regexpPattern(t *testing.T, name, expr string, priority int) Pattern {
	t.Helper()
	m, err := CompileRegexpMatcher(expr, "")
	require.NoError(t, err)
	return Pattern{Name: name, Matcher: m, Priority: priority, Highlight: m.HighlightGroup()}
}

func TestTextScalarIndex(t *testing.T) {
	text := NewText("héllo 日本 x")

	assert.Equal(t, 10, text.Len())
	assert.Empty(t, text.Degraded())

	s, ok := text.ScalarOffset(0)
	require.True(t, ok)
	assert.Equal(t, 0, s)

	// 'é' occupies bytes 1-2
	_, ok = text.ScalarOffset(2)
	assert.False(t, ok, "offset inside a two-byte scalar must not convert")

	s, ok = text.ScalarOffset(3)
	require.True(t, ok)
	assert.Equal(t, 2, s)

	assert.Equal(t, "日本", text.Slice(Span{Start: 6, End: 8}))
	assert.Equal(t, len(text.String()), text.ByteOffset(text.Len()))

	_, ok = text.ScalarOffset(-1)
	assert.False(t, ok)
	_, ok = text.ScalarOffset(len(text.String()) + 1)
	assert.False(t, ok)
}

func TestTextRepairsMalformedRuns(t *testing.T) {
	raw := "ab\xe2\x82cd\xff\xfe"
	text := NewText(raw)

	assert.Equal(t, raw, text.Raw())
	assert.True(t, utf8.ValidString(text.String()))
	assert.Equal(t, "ab�cd�", text.String())
	assert.Equal(t, []Span{{Start: 2, End: 3}, {Start: 5, End: 6}}, text.Degraded())

	assert.True(t, text.IsDegraded(Span{Start: 0, End: 3}))
	assert.False(t, text.IsDegraded(Span{Start: 3, End: 5}))
}

func TestTextKeepsLiteralReplacementCharacter(t *testing.T) {
	text := NewText("a�b")
	assert.Empty(t, text.Degraded(), "a well-formed U+FFFD is not malformed input")
	assert.Equal(t, 3, text.Len())
}

func TestRegexpMatcherHighlightGroup(t *testing.T) {
	testCases := []struct {
		description string
		expr        string
		highlight   string
		input       string
		wantGroup   string
		want        []string
	}{
		{"whole match", `[0-9]{4,}`, "", "a 12345 b 6789", "", []string{"12345", "6789"}},
		{"default match group", `modified: +(?P<match>.+)`, "", "modified:   src/a.go", "match", []string{"src/a.go"}},
		{"explicit group", `(?P<key>\w+)=(?P<val>\w+)`, "val", "a=1 b=2", "val", []string{"1", "2"}},
		{"optional group absent", `x(?P<match>y)?`, "", "x xy", "match", []string{"x", "y"}},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			m, err := CompileRegexpMatcher(tc.expr, tc.highlight)
			require.NoError(t, err)
			assert.Equal(t, tc.wantGroup, m.HighlightGroup())

			hits, err := m.FindAll(tc.input)
			require.NoError(t, err)
			var got []string
			for _, h := range hits {
				got = append(got, tc.input[h.Highlight.Start:h.Highlight.End])
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRegexpMatcherRejectsUnknownGroup(t *testing.T) {
	_, err := CompileRegexpMatcher(`(?P<a>x)`, "b")
	assert.Error(t, err)

	_, err = CompileRegexpMatcher(`(`, "")
	assert.Error(t, err)

	assert.Panics(t, func() { MustCompileRegexpMatcher(`(`, "") })
}

func TestScanConvertsToScalarOffsets(t *testing.T) {
	s := quietScanner()
	patterns := []Pattern{regexpPattern(t, "path", `/[\p{L}\w./]+`, 0)}

	res := s.Scan("ファイル /tmp/日本/x.txt です", patterns)
	require.Len(t, res.Matches, 1)

	m := res.Matches[0]
	assert.Equal(t, Span{Start: 5, End: 18}, m.Span)
	assert.Equal(t, m.Span, m.Highlight)
	assert.Equal(t, "/tmp/日本/x.txt", m.Text)
	assert.Equal(t, "path", m.Name)
	assert.False(t, m.Degraded)
}

func TestScanSubSpan(t *testing.T) {
	s := quietScanner()
	patterns := []Pattern{regexpPattern(t, "git-status", `(modified|deleted|new file): +(?P<match>.+)`, 0)}

	res := s.Scan("        modified:   spec/é.cr", patterns)
	require.Len(t, res.Matches, 1)

	m := res.Matches[0]
	assert.Equal(t, Span{Start: 8, End: 29}, m.Span)
	assert.Equal(t, Span{Start: 20, End: 29}, m.Highlight)
	assert.Equal(t, "spec/é.cr", m.Selected)
}

func TestScanIsolatesFailingPatterns(t *testing.T) {
	s := quietScanner()
	boom := errors.New("catastrophic input")
	patterns := []Pattern{
		{Name: "broken", Matcher: MatcherFunc(func(string) ([]Hit, error) { return nil, boom })},
		{Name: "panicky", Matcher: MatcherFunc(func(string) ([]Hit, error) { panic("index out of range") })},
		{Name: "missing"},
		regexpPattern(t, "digit", `[0-9]{4,}`, 3),
	}

	res := s.Scan("call 5551234 now", patterns)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, "5551234", res.Matches[0].Text)
	assert.Equal(t, 3, res.Matches[0].Pattern)

	require.Len(t, res.Failures, 3)
	assert.ErrorIs(t, res.Failures[0], boom)
	assert.Equal(t, "panicky", res.Failures[1].Pattern)
	assert.Contains(t, res.Failures[1].Error(), "panicked")
	assert.Equal(t, "missing", res.Failures[2].Pattern)
}

func TestScanDropsMisalignedHits(t *testing.T) {
	s := quietScanner()
	text := "é1234"
	patterns := []Pattern{{
		Name: "sloppy",
		Matcher: MatcherFunc(func(string) ([]Hit, error) {
			return []Hit{
				{Match: ByteSpan{1, 6}, Highlight: ByteSpan{1, 6}},  // starts inside 'é'
				{Match: ByteSpan{2, 6}, Highlight: ByteSpan{0, 6}},  // highlight escapes match
				{Match: ByteSpan{4, 2}, Highlight: ByteSpan{4, 2}},  // inverted
				{Match: ByteSpan{2, 99}, Highlight: ByteSpan{2, 3}}, // out of range
				{Match: ByteSpan{3, 3}, Highlight: ByteSpan{3, 3}},  // empty, skipped silently
				{Match: ByteSpan{2, 6}, Highlight: ByteSpan{3, 5}},
			}, nil
		}),
	}}

	res := s.Scan(text, patterns)
	assert.Equal(t, 4, res.Dropped)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "1234", res.Matches[0].Text)
	assert.Equal(t, "23", res.Matches[0].Selected)
	assert.Empty(t, res.Failures)
}

func TestScanMalformedInputFlagsDegradedRegion(t *testing.T) {
	s := quietScanner()
	raw := "token a\xe2\x82b and /etc/hosts"
	patterns := []Pattern{
		regexpPattern(t, "path", `/[\w.]+(/[\w.]+)*`, 0),
		regexpPattern(t, "word", `\S+`, 1),
	}

	res := s.Scan(raw, patterns)
	assert.Equal(t, []Span{{Start: 7, End: 8}}, res.Degraded())

	clean := res.Text.String()
	var degraded []string
	for _, m := range res.Matches {
		start := res.Text.ByteOffset(m.Span.Start)
		end := res.Text.ByteOffset(m.Span.End)
		assert.True(t, utf8.RuneStart(clean[start]), "match %q starts mid-sequence", m.Text)
		if end < len(clean) {
			assert.True(t, utf8.RuneStart(clean[end]), "match %q ends mid-sequence", m.Text)
		}
		if m.Degraded {
			degraded = append(degraded, m.Text)
		}
	}
	assert.Equal(t, []string{"a�b"}, degraded)
}

func TestScanUnicodeBoundaries(t *testing.T) {
	s := quietScanner()
	patterns := []Pattern{
		regexpPattern(t, "word", `\pL+`, 0),
		regexpPattern(t, "any", `[^ ]{2}`, 1),
	}
	inputs := []string{
		"naïve café résumé",
		"Ελληνικά και русский",
		"emoji 🎉🎉 party 👩‍💻 dev",
		strings.Repeat("日本語 ", 20),
		"mixed\xc3 broken\xe2\x28\xa1 bytes",
	}
	for _, in := range inputs {
		res := s.Scan(in, patterns)
		clean := res.Text.String()
		for _, m := range Resolve(res.Matches) {
			start := res.Text.ByteOffset(m.Span.Start)
			end := res.Text.ByteOffset(m.Span.End)
			require.True(t, utf8.ValidString(clean[start:end]), "%q: invalid slice %q", in, clean[start:end])
			assert.Equal(t, m.Text, clean[start:end])
			assert.Equal(t, m.Span.Len(), utf8.RuneCountInString(m.Text))
		}
	}
}

func TestResolveOverlapKeepsHigherPriority(t *testing.T) {
	s := quietScanner()
	patterns := []Pattern{
		regexpPattern(t, "A", `abc123`, 0),
		regexpPattern(t, "B", `123`, 1),
	}

	resolved := Resolve(s.Scan("abc123", patterns).Matches)
	require.Len(t, resolved, 1)
	assert.Equal(t, "A", resolved[0].Name)
	assert.Equal(t, 0, resolved[0].ID)
}

func TestResolveOrdering(t *testing.T) {
	raw := []RawMatch{
		{Name: "late", Priority: 0, Span: Span{20, 25}},
		{Name: "low", Priority: 2, Span: Span{0, 4}},
		{Name: "high", Priority: 1, Span: Span{0, 8}},
		{Name: "inside-high", Priority: 0, Span: Span{5, 7}},
		{Name: "touching", Priority: 3, Span: Span{8, 10}},
		{Name: "self-a", Priority: 4, Span: Span{12, 15}},
		{Name: "self-b", Priority: 4, Span: Span{12, 14}},
	}

	resolved := Resolve(raw)

	var names []string
	for i, r := range resolved {
		assert.Equal(t, i, r.ID)
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"high", "touching", "self-a", "late"}, names)
	assert.Equal(t, "late", raw[0].Name, "input must not be reordered")
}

func TestResolveIsDeterministicAndNonOverlapping(t *testing.T) {
	s := quietScanner()
	patterns := []Pattern{
		regexpPattern(t, "url", `https?://[^\s]+`, 0),
		regexpPattern(t, "path", `(([.\w\-~\$@]+)?(/[.\w\-@]+)+/?)`, 1),
		regexpPattern(t, "sha", `[0-9a-f]{7,128}`, 2),
		regexpPattern(t, "digit", `[0-9]{4,}`, 3),
	}
	text := "see https://example.com/a/b and ./foo/bar deadbeef123 then 12345 /etc/hosts"

	first := Resolve(s.Scan(text, patterns).Matches)
	second := Resolve(s.Scan(text, patterns).Matches)
	assert.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		assert.False(t, first[i-1].Span.Overlaps(first[i].Span))
		assert.LessOrEqual(t, first[i-1].Span.End, first[i].Span.Start)
	}
}

func TestResolveEmpty(t *testing.T) {
	assert.Empty(t, Resolve(nil))
}
