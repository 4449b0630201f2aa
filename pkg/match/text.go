package match

import (
	"strings"
	"unicode/utf8"
)

// Span is a half-open [Start, End) range measured in Unicode scalar values.
type Span struct {
	Start int
	End   int
}

// Len returns the number of scalars covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether the two half-open ranges intersect.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Contains reports whether o lies entirely inside s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Text is captured terminal text indexed by scalar offset.
//
// Runs of bytes that do not decode as UTF-8 are collapsed into a single
// U+FFFD scalar each and recorded as degraded regions. Matchers only ever
// see the repaired string, so no span they produce can start or end inside
// a malformed sequence.
type Text struct {
	raw      string
	clean    string
	scalars  []int // byte offset in clean -> scalar offset, -1 inside a multi-byte sequence
	offsets  []int // scalar offset -> byte offset in clean
	degraded []Span
}

// NewText indexes raw for scalar-offset conversion.
func NewText(raw string) *Text {
	t := &Text{raw: raw, clean: raw}
	if !utf8.ValidString(raw) {
		t.clean, t.degraded = repair(raw)
	}
	t.index()
	return t
}

func repair(raw string) (string, []Span) {
	var b strings.Builder
	b.Grow(len(raw))
	var degraded []Span
	scalar := 0
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRuneInString(raw[i:])
		if r == utf8.RuneError && size == 1 {
			j := i + 1
			for j < len(raw) {
				r2, s2 := utf8.DecodeRuneInString(raw[j:])
				if r2 != utf8.RuneError || s2 != 1 {
					break
				}
				j++
			}
			b.WriteRune(utf8.RuneError)
			degraded = append(degraded, Span{Start: scalar, End: scalar + 1})
			scalar++
			i = j
			continue
		}
		b.WriteString(raw[i : i+size])
		scalar++
		i += size
	}
	return b.String(), degraded
}

func (t *Text) index() {
	t.scalars = make([]int, len(t.clean)+1)
	for i := range t.scalars {
		t.scalars[i] = -1
	}
	t.offsets = make([]int, 0, len(t.clean)+1)
	n := 0
	for i := range t.clean {
		t.scalars[i] = n
		t.offsets = append(t.offsets, i)
		n++
	}
	t.scalars[len(t.clean)] = n
	t.offsets = append(t.offsets, len(t.clean))
}

// Raw returns the text exactly as captured.
func (t *Text) Raw() string { return t.raw }

// String returns the repaired text the matchers run over.
func (t *Text) String() string { return t.clean }

// Len returns the number of scalars in the text.
func (t *Text) Len() int { return len(t.offsets) - 1 }

// Degraded returns the scalar ranges that replaced malformed input.
func (t *Text) Degraded() []Span { return t.degraded }

// ScalarOffset converts a byte offset into the repaired text to a scalar
// offset. It fails for offsets out of range or inside a multi-byte sequence.
func (t *Text) ScalarOffset(byteOffset int) (int, bool) {
	if byteOffset < 0 || byteOffset >= len(t.scalars) {
		return 0, false
	}
	s := t.scalars[byteOffset]
	return s, s >= 0
}

// ByteOffset converts a scalar offset back to a byte offset into String().
func (t *Text) ByteOffset(scalar int) int {
	if scalar < 0 {
		return 0
	}
	if scalar >= len(t.offsets) {
		return len(t.clean)
	}
	return t.offsets[scalar]
}

// Slice returns the repaired text covered by span.
func (t *Text) Slice(span Span) string {
	return t.clean[t.ByteOffset(span.Start):t.ByteOffset(span.End)]
}

// IsDegraded reports whether span touches any degraded region.
func (t *Text) IsDegraded(span Span) bool {
	for _, d := range t.degraded {
		if d.Start >= span.End {
			break
		}
		if span.Overlaps(d) {
			return true
		}
	}
	return false
}
