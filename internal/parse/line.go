// Package parse extracts parameters embedded in operator messages.
package parse

import (
	"strconv"
	"strings"
)

const lineKeyword = "line"

// LineID scans the whitespace-separated tokens of a lower-cased message for
// the token "line" followed by an integer, and returns that integer.
// Later occurrences are tried when the first one is not followed by a number.
func LineID(message string) (int, bool) {
	words := strings.Fields(message)
	for i, word := range words {
		if word != lineKeyword || i+1 >= len(words) {
			continue
		}
		if n, err := strconv.Atoi(words[i+1]); err == nil {
			return n, true
		}
	}
	return 0, false
}
