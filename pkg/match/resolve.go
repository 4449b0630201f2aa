package match

import (
	"cmp"
	"slices"
)

// Resolved is a RawMatch that survived overlap resolution.
// ID is its rank in reading order, 0..N-1.
type Resolved struct {
	ID int
	RawMatch
}

// Resolve merges matches from all patterns into one non-overlapping list.
//
// Candidates are ordered by start offset, then by pattern priority; matches
// that tie on both keep the order their matcher reported them in. Walking that
// order, a candidate overlapping the last accepted match is discarded whole.
// The input slice is not modified.
func Resolve(raw []RawMatch) []Resolved {
	if len(raw) == 0 {
		return nil
	}
	sorted := slices.Clone(raw)
	slices.SortStableFunc(sorted, func(a, b RawMatch) int {
		if c := cmp.Compare(a.Span.Start, b.Span.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.Priority, b.Priority)
	})

	out := make([]Resolved, 0, len(sorted))
	for _, m := range sorted {
		if n := len(out); n > 0 && out[n-1].Span.Overlaps(m.Span) {
			continue
		}
		out = append(out, Resolved{ID: len(out), RawMatch: m})
	}
	return out
}
