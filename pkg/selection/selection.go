// Package selection tracks what the user has typed while hints are shown
// and decides when a match is picked.
//
// A Selector is a small state machine over hint.Lookup answers. Typing a
// symbol that leads nowhere clears the input, a prefix keeps it, and a full
// code selects. In multi mode every completed code toggles its match in the
// chosen set and the input starts over, until Commit is called.
package selection

import (
	"fmt"
	"slices"

	"github.com/bastiangx/hintserve/pkg/hint"
)

// State is the result of one keystroke.
type State int

const (
	// Reset means the input matched nothing and was cleared.
	Reset State = iota
	// Continue means the input is a prefix of one or more codes.
	Continue
	// Selected means a full code was typed.
	Selected
)

func (s State) String() string {
	switch s {
	case Reset:
		return "reset"
	case Continue:
		return "continue"
	case Selected:
		return "selected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome describes the selector after a keystroke.
type Outcome struct {
	State State
	// Candidates are the ids still reachable from the input, ascending.
	Candidates []int
	// ID is the selected match when State is Selected.
	ID int
	// Chosen reports, in multi mode, whether ID is now in the chosen set
	// (false means it was toggled off).
	Chosen bool
}

// Selector accumulates typed symbols against one hint set.
type Selector struct {
	lookup *hint.Lookup
	multi  bool
	input  []rune
	chosen []int
	done   bool
}

// New returns a selector over lookup.
func New(lookup *hint.Lookup, multi bool) *Selector {
	return &Selector{lookup: lookup, multi: multi}
}

// Multi reports whether the selector accumulates several matches.
func (s *Selector) Multi() bool { return s.multi }

// Done reports whether a single-mode selection has completed.
func (s *Selector) Done() bool { return s.done }

// Input returns the symbols typed since the last reset or selection.
func (s *Selector) Input() string { return string(s.input) }

// Chosen returns the chosen ids in the order they were picked.
func (s *Selector) Chosen() []int { return slices.Clone(s.chosen) }

// Type feeds one symbol. After a single-mode selection further input is
// ignored and the completed outcome is returned again.
func (s *Selector) Type(r rune) Outcome {
	if s.done {
		return Outcome{State: Selected, ID: s.chosen[0], Chosen: true}
	}
	s.input = append(s.input, r)
	res := s.lookup.Query(string(s.input))

	switch res.Kind {
	case hint.Exact:
		id := res.IDs[0]
		s.input = s.input[:0]
		if !s.multi {
			s.chosen = []int{id}
			s.done = true
			return Outcome{State: Selected, ID: id, Chosen: true}
		}
		on := s.toggle(id)
		return Outcome{State: Selected, ID: id, Chosen: on}
	case hint.Partial:
		return Outcome{State: Continue, Candidates: res.IDs}
	default:
		s.input = s.input[:0]
		return Outcome{State: Reset, Candidates: s.lookup.Query("").IDs}
	}
}

// Backspace drops the last typed symbol and reports the candidates left.
func (s *Selector) Backspace() Outcome {
	if len(s.input) > 0 && !s.done {
		s.input = s.input[:len(s.input)-1]
	}
	return Outcome{State: Continue, Candidates: s.lookup.Query(string(s.input)).IDs}
}

// Commit ends the selection and returns the chosen ids in selection order.
// The selector is left empty.
func (s *Selector) Commit() []int {
	out := s.chosen
	s.chosen = nil
	s.input = s.input[:0]
	s.done = false
	return out
}

func (s *Selector) toggle(id int) bool {
	if i := slices.Index(s.chosen, id); i >= 0 {
		s.chosen = slices.Delete(s.chosen, i, i+1)
		return false
	}
	s.chosen = append(s.chosen, id)
	return true
}
