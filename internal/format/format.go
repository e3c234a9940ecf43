// Package format renders numbers the way the site displays them.
package format

import (
	"strconv"
	"strings"
)

// Stat formats a counter value with its display suffix.
// Example: Stat(1200, "+") => "1,200+"
func Stat(value int, suffix string) string {
	return Thousands(int64(value)) + suffix
}

// Thousands inserts comma separators every three digits.
func Thousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
