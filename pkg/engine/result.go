package engine

import (
	"github.com/bastiangx/hintserve/pkg/hint"
	"github.com/bastiangx/hintserve/pkg/match"
)

// Result is one capture's worth of matches and hints. It is owned by the
// caller and never changes after Run returns.
type Result struct {
	Text     *match.Text
	Matches  []match.Resolved
	Hints    []hint.Hint
	Lookup   *hint.Lookup
	Failures []match.PatternFailure
}

// Empty reports whether there is nothing to select.
func (r *Result) Empty() bool {
	return len(r.Matches) == 0
}

// Degraded returns the scalar ranges repaired from malformed input.
func (r *Result) Degraded() []match.Span {
	return r.Text.Degraded()
}

// Match returns the resolved match with the given id.
func (r *Result) Match(id int) (match.Resolved, bool) {
	if id < 0 || id >= len(r.Matches) {
		return match.Resolved{}, false
	}
	return r.Matches[id], true
}

// HintFor returns the code assigned to a match id.
func (r *Result) HintFor(id int) (string, bool) {
	return r.Lookup.Code(id)
}

// Query is a shorthand for r.Lookup.Query.
func (r *Result) Query(typed string) hint.Result {
	return r.Lookup.Query(typed)
}
