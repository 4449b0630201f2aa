package utils

import "strings"

// ShellQuote wraps s in single quotes so a POSIX shell reads it as one word.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
