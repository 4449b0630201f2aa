package cli

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var namedColors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",
}

// ParseStyle turns a tmux style string such as "fg=green,bold" or
// "bg=colour235 dim" into a lipgloss style. Unknown parts are ignored.
func ParseStyle(r *lipgloss.Renderer, attrs string) lipgloss.Style {
	style := r.NewStyle()
	parts := strings.FieldsFunc(attrs, func(c rune) bool { return c == ',' || c == ' ' })
	for _, part := range parts {
		switch {
		case strings.HasPrefix(part, "fg="):
			if c, ok := parseColor(part[len("fg="):]); ok {
				style = style.Foreground(c)
			}
		case strings.HasPrefix(part, "bg="):
			if c, ok := parseColor(part[len("bg="):]); ok {
				style = style.Background(c)
			}
		case part == "bold" || part == "bright":
			style = style.Bold(true)
		case part == "dim":
			style = style.Faint(true)
		case part == "italics":
			style = style.Italic(true)
		case part == "underscore":
			style = style.Underline(true)
		case part == "reverse":
			style = style.Reverse(true)
		case part == "blink":
			style = style.Blink(true)
		default:
			log.Debugf("Ignoring unknown style attribute %q", part)
		}
	}
	return style
}

func parseColor(name string) (lipgloss.TerminalColor, bool) {
	if name == "default" {
		return lipgloss.NoColor{}, true
	}
	if strings.HasPrefix(name, "#") {
		return lipgloss.Color(name), true
	}
	for _, prefix := range []string{"colour", "color"} {
		if code, ok := strings.CutPrefix(name, prefix); ok {
			if n, err := strconv.Atoi(code); err == nil && n >= 0 && n <= 255 {
				return lipgloss.Color(code), true
			}
			log.Debugf("Ignoring bad color %q", name)
			return nil, false
		}
	}
	if code, ok := namedColors[name]; ok {
		return lipgloss.Color(code), true
	}
	log.Debugf("Ignoring unknown color %q", name)
	return nil, false
}
