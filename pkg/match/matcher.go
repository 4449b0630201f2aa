package match

import (
	"fmt"
	"regexp"
)

// DefaultHighlightGroup is the capture group a regexp pattern uses to mark the
// part of a match worth copying, e.g. `modified: +(?P<match>.+)`.
const DefaultHighlightGroup = "match"

// ByteSpan is a half-open byte range into the text handed to a Matcher.
type ByteSpan struct {
	Start int
	End   int
}

// Hit is one occurrence reported by a Matcher, in byte offsets.
// Highlight must lie inside Match.
type Hit struct {
	Match     ByteSpan
	Highlight ByteSpan
}

// Matcher finds every non-overlapping occurrence of one pattern in text.
type Matcher interface {
	FindAll(text string) ([]Hit, error)
}

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(text string) ([]Hit, error)

// FindAll calls f(text).
func (f MatcherFunc) FindAll(text string) ([]Hit, error) {
	return f(text)
}

// RegexpMatcher runs a compiled regexp and reports one capture group as the highlight.
type RegexpMatcher struct {
	re    *regexp.Regexp
	group int // 0 highlights the whole match
}

// NewRegexpMatcher wraps re. An empty highlight picks the "match" group when re
// declares one and the whole match otherwise; a non-empty name must exist in re.
func NewRegexpMatcher(re *regexp.Regexp, highlight string) (*RegexpMatcher, error) {
	if re == nil {
		return nil, fmt.Errorf("nil regexp")
	}
	m := &RegexpMatcher{re: re}
	if highlight == "" {
		if idx := re.SubexpIndex(DefaultHighlightGroup); idx > 0 {
			m.group = idx
		}
		return m, nil
	}
	idx := re.SubexpIndex(highlight)
	if idx < 0 {
		return nil, fmt.Errorf("regexp %q has no capture group named %q", re.String(), highlight)
	}
	m.group = idx
	return m, nil
}

// CompileRegexpMatcher compiles expr and wraps it with NewRegexpMatcher.
func CompileRegexpMatcher(expr, highlight string) (*RegexpMatcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return NewRegexpMatcher(re, highlight)
}

// MustCompileRegexpMatcher is like CompileRegexpMatcher but panics on error.
func MustCompileRegexpMatcher(expr, highlight string) *RegexpMatcher {
	m, err := CompileRegexpMatcher(expr, highlight)
	if err != nil {
		panic(err)
	}
	return m
}

// HighlightGroup returns the name of the highlighted capture group, or "" for the whole match.
func (m *RegexpMatcher) HighlightGroup() string {
	if m.group == 0 {
		return ""
	}
	return m.re.SubexpNames()[m.group]
}

func (m *RegexpMatcher) String() string {
	return m.re.String()
}

// FindAll returns the leftmost-first, non-overlapping matches of the regexp.
// A highlight group that did not take part in a match falls back to the whole match.
func (m *RegexpMatcher) FindAll(text string) ([]Hit, error) {
	locs := m.re.FindAllStringSubmatchIndex(text, -1)
	hits := make([]Hit, 0, len(locs))
	for _, loc := range locs {
		whole := ByteSpan{Start: loc[0], End: loc[1]}
		hl := whole
		if m.group > 0 && loc[2*m.group] >= 0 {
			hl = ByteSpan{Start: loc[2*m.group], End: loc[2*m.group+1]}
		}
		hits = append(hits, Hit{Match: whole, Highlight: hl})
	}
	return hits, nil
}
