package testing

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes all ANSI escape codes from a rendered view.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// ContainsInOrder checks if the output contains all specified strings in order.
func ContainsInOrder(output string, expected ...string) bool {
	lastIndex := 0
	for _, exp := range expected {
		index := strings.Index(output[lastIndex:], exp)
		if index == -1 {
			return false
		}
		lastIndex += index + len(exp)
	}
	return true
}

// LineContaining returns the first line of output that contains text.
func LineContaining(output, text string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, text) {
			return line, true
		}
	}
	return "", false
}
