package utils

// Truncate shortens s to at most maxLen runes, adding an ellipsis when it
// cuts anything.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
