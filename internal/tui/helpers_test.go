package tui

import (
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short unchanged", "MIT", 34, "MIT"},
		{"exact length unchanged", "abcdefghij", 10, "abcdefghij"},
		{"long ascii", "University of Toronto", 10, "Univers..."},
		{"multi-byte at the cut", "Université de Montréal Économie", 12, "Universit..."},
		{"fully multi-byte", "大阪大学工学部情報科学科", 8, "大阪大学工..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := truncate(tc.in, tc.max)
			if got != tc.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}
