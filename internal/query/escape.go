package query

import "strings"

// EscapeValue sanitizes a user-controlled value for interpolation into a
// quoted string literal inside a pipeline expression. Backslashes and double
// quotes are escaped and control characters are dropped, so a crafted search
// term or location name cannot break out of its literal and inject pipeline
// stages.
func EscapeValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '"':
			b.WriteString(`\"`)
		case r < 0x20:
			// drop control characters
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
