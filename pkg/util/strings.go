package util

import (
	"strconv"
	"strings"
)

// SanitizeFilename turns a display label into a download-safe filename:
// spaces become underscores and anything outside [A-Za-z0-9._-] is dropped.
func SanitizeFilename(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatValue renders a float without trailing zeros for CSV cells.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
