package hint

import (
	"errors"
	"fmt"
)

var (
	// ErrAlphabetTooSmall is returned for alphabets with fewer than two symbols;
	// no prefix code can be built over them.
	ErrAlphabetTooSmall = errors.New("alphabet needs at least two symbols")

	// ErrDuplicateSymbol is returned when a symbol appears twice in an alphabet.
	ErrDuplicateSymbol = errors.New("alphabet symbols must be distinct")
)

// Alphabet is an ordered set of hint symbols, most preferred first.
type Alphabet []rune

// NewAlphabet builds an alphabet from the runes of symbols and validates it.
func NewAlphabet(symbols string) (Alphabet, error) {
	a := Alphabet(symbols)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// MustAlphabet is like NewAlphabet but panics on error.
func MustAlphabet(symbols string) Alphabet {
	a, err := NewAlphabet(symbols)
	if err != nil {
		panic(err)
	}
	return a
}

// Validate checks the alphabet has at least two distinct symbols.
func (a Alphabet) Validate() error {
	if len(a) < 2 {
		return fmt.Errorf("%w: got %d", ErrAlphabetTooSmall, len(a))
	}
	seen := make(map[rune]struct{}, len(a))
	for _, r := range a {
		if _, dup := seen[r]; dup {
			return fmt.Errorf("%w: %q repeats", ErrDuplicateSymbol, r)
		}
		seen[r] = struct{}{}
	}
	return nil
}

// Size returns K, the number of symbols.
func (a Alphabet) Size() int { return len(a) }

// Index returns the position of r in the alphabet, or -1.
func (a Alphabet) Index(r rune) int {
	for i, s := range a {
		if s == r {
			return i
		}
	}
	return -1
}

func (a Alphabet) String() string { return string(a) }

// spell turns alphabet positions into a code string.
func (a Alphabet) spell(positions []int) string {
	code := make([]rune, len(positions))
	for i, p := range positions {
		code[i] = a[p]
	}
	return string(code)
}
