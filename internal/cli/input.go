package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bastiangx/hintserve/internal/logger"
	"github.com/bastiangx/hintserve/internal/utils"
	"github.com/bastiangx/hintserve/pkg/engine"
	"github.com/bastiangx/hintserve/pkg/selection"
	"github.com/charmbracelet/log"
)

// Line commands understood by the selection loop besides hint symbols.
const (
	backspaceKey = '<'
	commitLine   = "!"
)

// SelectHandler processes typed hint symbols for one captured text and
// prints the text of the chosen matches.
type SelectHandler struct {
	result   *engine.Result
	selector *selection.Selector
	renderer *Renderer
	quote    bool
	log      *log.Logger
}

// NewSelectHandler prepares a selection over res. With quote set, chosen
// texts are printed shell quoted.
func NewSelectHandler(res *engine.Result, renderer *Renderer, multi, quote bool, l *log.Logger) *SelectHandler {
	if l == nil {
		l = logger.Default("select")
	}
	return &SelectHandler{
		result:   res,
		selector: selection.New(res.Lookup, multi),
		renderer: renderer,
		quote:    quote,
		log:      l,
	}
}

// Start runs the loop: it shows the overlay, reads lines from in, feeds
// every symbol to the selector and writes the chosen texts to out. It ends
// after a single selection, after "!" in multi mode, or at end of input.
func (h *SelectHandler) Start(in io.Reader, out io.Writer) error {
	if h.result.Empty() {
		h.log.Warn("Nothing to select")
		return nil
	}
	if h.renderer != nil {
		h.log.Print("\n" + h.renderer.Overlay(h.result, nil))
	}
	if h.selector.Multi() {
		h.log.Print("type hints to toggle matches, '!' to finish, '<' to erase:")
	} else {
		h.log.Print("type a hint, '<' to erase (Ctrl+D to cancel):")
	}

	reader := bufio.NewReader(in)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := err != nil

		line = strings.TrimSpace(line)
		if line == commitLine && h.selector.Multi() {
			return h.emit(out, h.selector.Commit())
		}
		if done := h.handleInput(line); done {
			return h.emit(out, h.selector.Commit())
		}
		if eof {
			if h.selector.Multi() {
				return h.emit(out, h.selector.Commit())
			}
			h.log.Info("Selection cancelled")
			return nil
		}
	}
}

// handleInput feeds one line of symbols and reports whether a single-mode
// selection completed.
func (h *SelectHandler) handleInput(line string) bool {
	for _, r := range line {
		var out selection.Outcome
		if r == backspaceKey {
			out = h.selector.Backspace()
		} else {
			out = h.selector.Type(r)
		}

		switch out.State {
		case selection.Reset:
			h.log.Warnf("No hint starts with %q, input cleared", string(r))
		case selection.Continue:
			h.log.Debugf("Input %q narrows to %d match(es)", h.selector.Input(), len(out.Candidates))
		case selection.Selected:
			m, _ := h.result.Match(out.ID)
			if h.selector.Multi() {
				verb := "Added"
				if !out.Chosen {
					verb = "Removed"
				}
				h.log.Printf("%s %s (%s)", verb, m.Selected, m.Name)
				if h.renderer != nil {
					h.log.Print("\n" + h.renderer.Overlay(h.result, h.selector.Chosen()))
				}
				continue
			}
			h.log.Debugf("Selected match %d (%s)", out.ID, m.Name)
			return true
		}
	}
	return false
}

func (h *SelectHandler) emit(out io.Writer, ids []int) error {
	for _, id := range ids {
		m, ok := h.result.Match(id)
		if !ok {
			continue
		}
		text := m.Selected
		if h.quote {
			text = utils.ShellQuote(text)
		}
		if _, err := fmt.Fprintln(out, text); err != nil {
			return err
		}
	}
	return nil
}
