package mappers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "short", in: "abc", limit: 5, want: "abc"},
		{name: "ascii", in: "abcdef", limit: 4, want: "abcd"},
		{name: "boundary inside rune", in: strings.Repeat("a", 254) + "é", limit: 255, want: strings.Repeat("a", 254)},
		{name: "four byte rune", in: "ab😀cd", limit: 4, want: "ab"},
		{name: "exact rune end", in: "aé" + "b", limit: 3, want: "aé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, len(got), tt.limit)
		})
	}
}
