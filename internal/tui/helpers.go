package tui

// truncate shortens a string to max runes with ellipsis. Cutting on runes
// keeps multi-byte names intact at the boundary.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
