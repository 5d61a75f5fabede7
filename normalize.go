package kansuji

import (
	"strings"
)

// monthCountReplacer rewrites the formal counter 箇月 to its common
// spelling か月. It runs over the whole output, converted or not.
var monthCountReplacer = strings.NewReplacer("箇月", "か月")

// Normalize applies the final cosmetic substitutions to converted text.
func Normalize(s string) string {
	return monthCountReplacer.Replace(s)
}

// NeedsConversion reports whether text holds anything Convert could
// change: a numeral character or the 箇月 counter.
func NeedsConversion(text string) bool {
	return containsNumeral(text) || strings.Contains(text, "箇月")
}

func containsNumeral(text string) bool {
	return strings.IndexFunc(text, IsNumeral) >= 0
}
