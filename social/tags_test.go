package social

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"whitespace stripped", "a, b ,c", []string{"a", "b", "c"}},
		{"order preserved", "c, a, b", []string{"c", "a", "b"}},
		{"single tag", "art", []string{"art"}},
		{"empty input", "", []string{}},
		{"blank input", "   ", []string{}},
		{"empty segments kept", "a,,b", []string{"a", "", "b"}},
		{"duplicates kept", "a,a", []string{"a", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.raw))
		})
	}
}

func TestNormalizeTagsIdempotent(t *testing.T) {
	// Re-joining a normalized array with commas and normalizing again
	// must yield the same array.
	inputs := []string{"a, b ,c", "photo,travel", " solo ", "x,,y"}
	for _, raw := range inputs {
		once := NormalizeTags(raw)
		twice := NormalizeTags(strings.Join(once, ","))
		assert.Equal(t, once, twice, "input %q", raw)
	}
}
