// Package cli renders hint overlays in the terminal and runs the interactive
// selection loop used for debugging patterns and layouts.
package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bastiangx/hintserve/pkg/config"
	"github.com/bastiangx/hintserve/pkg/engine"
	"github.com/bastiangx/hintserve/pkg/match"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Renderer draws hints over captured text.
type Renderer struct {
	hint              lipgloss.Style
	highlight         lipgloss.Style
	selectedHint      lipgloss.Style
	selectedHighlight lipgloss.Style
	backdrop          lipgloss.Style
	right             bool
}

// NewRenderer builds a renderer from the configured styles. Colors are
// dropped when r does not write to a color terminal.
func NewRenderer(r *lipgloss.Renderer, cfg *config.Config) *Renderer {
	return &Renderer{
		hint:              ParseStyle(r, cfg.Style.Hint),
		highlight:         ParseStyle(r, cfg.Style.Highlight),
		selectedHint:      ParseStyle(r, cfg.Style.SelectedHint),
		selectedHighlight: ParseStyle(r, cfg.Style.SelectedHighlight),
		backdrop:          ParseStyle(r, cfg.Style.Backdrop),
		right:             cfg.Position() == config.PositionRight,
	}
}

// Overlay returns the captured text with every hint drawn over the start
// (or end) of its highlighted part. Matches in chosen use the selected styles.
func (r *Renderer) Overlay(res *engine.Result, chosen []int) string {
	var b strings.Builder
	text := res.Text
	prev := 0
	for _, m := range res.Matches {
		code, _ := res.HintFor(m.ID)
		selected := slices.Contains(chosen, m.ID)

		b.WriteString(paint(r.backdrop, text.Slice(match.Span{Start: prev, End: m.Highlight.Start})))
		b.WriteString(r.format(code, m.Highlight, text, selected))
		prev = m.Highlight.End
	}
	b.WriteString(paint(r.backdrop, text.Slice(match.Span{Start: prev, End: text.Len()})))
	return b.String()
}

// format draws one hint. The hint replaces as many highlighted symbols as it
// is long so the rest of the line keeps its columns.
func (r *Renderer) format(code string, span match.Span, text *match.Text, selected bool) string {
	hintStyle, highlightStyle := r.hint, r.highlight
	if selected {
		hintStyle, highlightStyle = r.selectedHint, r.selectedHighlight
	}

	highlighted := []rune(text.Slice(span))
	n := len([]rune(code))
	var chopped string
	if len(highlighted) > n {
		if r.right {
			chopped = string(highlighted[:len(highlighted)-n])
		} else {
			chopped = string(highlighted[n:])
		}
	}

	hintPart := hintStyle.Render(code)
	highlightPart := paint(highlightStyle, chopped)
	if r.right {
		return highlightPart + hintPart
	}
	return hintPart + highlightPart
}

// paint styles s line by line so the style never pads lines to a common width.
func paint(style lipgloss.Style, s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// Table lists every match with its hint.
func Table(res *engine.Result) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("HINT", "PATTERN", "SPAN", "SELECTED")
	for _, m := range res.Matches {
		code, _ := res.HintFor(m.ID)
		selected := m.Selected
		if m.Degraded {
			selected += " (degraded)"
		}
		t.Row(code, m.Name, fmt.Sprintf("%d-%d", m.Span.Start, m.Span.End), selected)
	}
	return t.Render()
}
