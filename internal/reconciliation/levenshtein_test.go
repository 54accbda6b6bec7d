package reconciliation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"txn12345", "txn12399", 2},
		{"flaw", "lawn", 2},
		{"ñandu", "nandu", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
		assert.Equal(t, tt.want, levenshtein(tt.b, tt.a), "%q vs %q", tt.b, tt.a)
	}
}

func TestWithinEditDistance_PrunesOnLength(t *testing.T) {
	d, ok := withinEditDistance("ab", "abcdefg", 3)
	assert.False(t, ok)
	assert.Equal(t, 5, d)

	d, ok = withinEditDistance("abcd", "abxy", 3)
	assert.True(t, ok)
	assert.Equal(t, 2, d)
}
