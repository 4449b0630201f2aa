// Package engine wires the scanner, resolver, and hint assigner into one
// pass over a captured screen.
//
// An Engine is built once per activation from an immutable configuration and
// rejects bad configuration up front. Run is a pure function of the text: it
// recomputes the whole match and hint set every time and keeps nothing between
// calls, so one Engine can serve any number of captures.
package engine

import (
	"errors"
	"fmt"

	"github.com/bastiangx/hintserve/pkg/hint"
	"github.com/bastiangx/hintserve/pkg/match"
	"github.com/charmbracelet/log"
)

// ErrNoPatterns is returned when RequirePatterns is set and no pattern is given.
var ErrNoPatterns = errors.New("no patterns enabled")

// ConfigError reports configuration that makes the engine unusable.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Options configures an Engine.
type Options struct {
	// Patterns in declaration order; priority is taken from the position.
	Patterns []match.Pattern
	Alphabet hint.Alphabet
	// RequirePatterns rejects an empty pattern list.
	RequirePatterns bool
	Logger          *log.Logger
}

// Engine runs scan -> resolve -> assign for one configuration.
type Engine struct {
	patterns []match.Pattern
	alphabet hint.Alphabet
	scanner  *match.Scanner
}

// New validates opts and returns an engine. Errors are *ConfigError.
func New(opts Options) (*Engine, error) {
	if err := opts.Alphabet.Validate(); err != nil {
		return nil, &ConfigError{Field: "alphabet", Err: err}
	}
	if opts.RequirePatterns && len(opts.Patterns) == 0 {
		return nil, &ConfigError{Field: "patterns", Err: ErrNoPatterns}
	}

	names := make(map[string]struct{}, len(opts.Patterns))
	patterns := make([]match.Pattern, len(opts.Patterns))
	for i, p := range opts.Patterns {
		if p.Name == "" {
			return nil, &ConfigError{Field: "patterns", Err: fmt.Errorf("pattern %d has no name", i)}
		}
		if p.Matcher == nil {
			return nil, &ConfigError{Field: "patterns", Err: fmt.Errorf("pattern %q has no matcher", p.Name)}
		}
		if _, dup := names[p.Name]; dup {
			return nil, &ConfigError{Field: "patterns", Err: fmt.Errorf("pattern %q declared twice", p.Name)}
		}
		names[p.Name] = struct{}{}
		p.Priority = i
		patterns[i] = p
	}

	alphabet := make(hint.Alphabet, len(opts.Alphabet))
	copy(alphabet, opts.Alphabet)

	return &Engine{
		patterns: patterns,
		alphabet: alphabet,
		scanner:  match.NewScanner(opts.Logger),
	}, nil
}

// Alphabet returns the symbols hints are spelled with.
func (e *Engine) Alphabet() hint.Alphabet { return e.alphabet }

// Patterns returns the pattern names in priority order.
func (e *Engine) Patterns() []string {
	names := make([]string, len(e.patterns))
	for i, p := range e.patterns {
		names[i] = p.Name
	}
	return names
}

// Run computes every match and hint for text.
func (e *Engine) Run(text string) *Result {
	scan := e.scanner.Scan(text, e.patterns)
	matches := match.Resolve(scan.Matches)

	// The alphabet was validated in New, so Assign cannot fail here.
	hints, err := hint.Assign(matches, e.alphabet)
	if err != nil {
		panic(err)
	}
	log.Debugf("scanned %d scalars: %d raw, %d resolved, %d failed pattern(s)",
		scan.Text.Len(), len(scan.Matches), len(matches), len(scan.Failures))

	return &Result{
		Text:     scan.Text,
		Matches:  matches,
		Hints:    hints,
		Lookup:   hint.NewLookup(hints),
		Failures: scan.Failures,
	}
}
