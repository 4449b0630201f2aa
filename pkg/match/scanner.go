// Package match finds pattern occurrences in captured terminal text and
// resolves them into one ordered, non-overlapping list.
//
// Every pattern is scanned independently over the whole text; patterns never
// see each other's matches. Offsets leave this package in Unicode scalar units.
package match

import (
	"fmt"

	"github.com/bastiangx/hintserve/internal/logger"
	"github.com/charmbracelet/log"
)

// Pattern is one named matcher. Priority orders patterns on overlap: lower wins.
type Pattern struct {
	Name     string
	Matcher  Matcher
	Priority int
	// Highlight names the designated sub-span for display; informational only,
	// the Matcher is what actually reports it.
	Highlight string
}

// RawMatch is a single occurrence before overlap resolution.
type RawMatch struct {
	Pattern   int // index into the scanned pattern list
	Name      string
	Priority  int
	Span      Span
	Highlight Span
	Text      string // matched text
	Selected  string // highlighted text, what a selection yields
	Degraded  bool   // span touches a repaired malformed region
}

// PatternFailure records a pattern whose matcher failed; it contributed no matches.
type PatternFailure struct {
	Pattern string
	Err     error
}

func (f PatternFailure) Error() string {
	return fmt.Sprintf("pattern %q: %v", f.Pattern, f.Err)
}

func (f PatternFailure) Unwrap() error { return f.Err }

// ScanResult holds every pattern's matches, in pattern order, plus what went wrong.
type ScanResult struct {
	Text     *Text
	Matches  []RawMatch
	Failures []PatternFailure
	Dropped  int // hits rejected for bad or misaligned offsets
}

// Degraded returns the scalar ranges that were repaired before scanning.
func (r *ScanResult) Degraded() []Span {
	return r.Text.Degraded()
}

// Scanner applies patterns to text. It holds no per-scan state.
type Scanner struct {
	log *log.Logger
}

// NewScanner returns a scanner logging through l, or a "scan" logger when l is nil.
func NewScanner(l *log.Logger) *Scanner {
	if l == nil {
		l = logger.Default("scan")
	}
	return &Scanner{log: l}
}

// Scan indexes text and runs every pattern over it.
func (s *Scanner) Scan(text string, patterns []Pattern) *ScanResult {
	return s.ScanText(NewText(text), patterns)
}

// ScanText runs every pattern over an already indexed text.
// A failing pattern is recorded and skipped; the rest still run.
func (s *Scanner) ScanText(t *Text, patterns []Pattern) *ScanResult {
	res := &ScanResult{Text: t}
	if d := t.Degraded(); len(d) > 0 {
		s.log.Debugf("text has %d malformed region(s), scanning repaired text", len(d))
	}
	for i, p := range patterns {
		matches, dropped, err := s.scanPattern(t, i, p)
		res.Dropped += dropped
		if err != nil {
			s.log.Warnf("pattern %q failed, skipping: %v", p.Name, err)
			res.Failures = append(res.Failures, PatternFailure{Pattern: p.Name, Err: err})
			continue
		}
		res.Matches = append(res.Matches, matches...)
	}
	return res
}

func (s *Scanner) scanPattern(t *Text, idx int, p Pattern) (matches []RawMatch, dropped int, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches, err = nil, fmt.Errorf("matcher panicked: %v", r)
		}
	}()
	if p.Matcher == nil {
		return nil, 0, fmt.Errorf("no matcher")
	}

	hits, err := p.Matcher.FindAll(t.String())
	if err != nil {
		return nil, 0, err
	}

	matches = make([]RawMatch, 0, len(hits))
	for _, h := range hits {
		m, ok := s.convert(t, h)
		if !ok {
			dropped++
			continue
		}
		if m.Span.Len() == 0 {
			continue
		}
		m.Pattern = idx
		m.Name = p.Name
		m.Priority = p.Priority
		matches = append(matches, m)
	}
	if dropped > 0 {
		s.log.Warnf("pattern %q: dropped %d hit(s) with invalid offsets", p.Name, dropped)
	}
	return matches, dropped, nil
}

// convert maps a byte-offset hit to scalar spans, rejecting anything that is
// out of range, inverted, misaligned, or whose highlight escapes the match.
func (s *Scanner) convert(t *Text, h Hit) (RawMatch, bool) {
	if h.Match.Start > h.Match.End || h.Highlight.Start > h.Highlight.End {
		return RawMatch{}, false
	}
	if h.Highlight.Start < h.Match.Start || h.Highlight.End > h.Match.End {
		return RawMatch{}, false
	}
	var span, hl Span
	var ok bool
	if span.Start, ok = t.ScalarOffset(h.Match.Start); !ok {
		return RawMatch{}, false
	}
	if span.End, ok = t.ScalarOffset(h.Match.End); !ok {
		return RawMatch{}, false
	}
	if hl.Start, ok = t.ScalarOffset(h.Highlight.Start); !ok {
		return RawMatch{}, false
	}
	if hl.End, ok = t.ScalarOffset(h.Highlight.End); !ok {
		return RawMatch{}, false
	}
	return RawMatch{
		Span:      span,
		Highlight: hl,
		Text:      t.Slice(span),
		Selected:  t.Slice(hl),
		Degraded:  t.IsDegraded(span),
	}, true
}
