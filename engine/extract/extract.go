// Package extract provides adapter-agnostic helpers for cleaning text and
// parsing numeric fields out of noisy marketplace markup.
package extract

import (
	"strconv"
	"strings"
)

// CleanText collapses internal whitespace and newlines to single spaces and
// trims both ends. An empty or all-whitespace input yields "".
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Int strips every non-digit character from s and parses the remaining digit
// run as an integer. ok is false when no digits remain.
func Int(s string) (int, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

// Price strips every character except digits and the decimal point from s
// and parses the remainder as a float. ok is false when no digits remain or
// the cleaned string is not a valid number; in particular a string that
// cleans to multiple decimal points (e.g. "1.234.56") is rejected rather
// than guessed at.
func Price(s string) (float64, bool) {
	var b strings.Builder
	digits := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = true
			b.WriteRune(r)
		} else if r == '.' {
			b.WriteRune(r)
		}
	}
	if !digits {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
