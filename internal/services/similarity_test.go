package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want int
	}{
		{"identical", []string{"cooking", "gardening"}, []string{"cooking", "gardening"}, 100},
		{"disjoint", []string{"cooking"}, []string{"coding"}, 0},
		{"half overlap", []string{"a", "b", "c"}, []string{"b", "c", "d"}, 50},
		{"one third", []string{"a", "b"}, []string{"b", "c"}, 33},
		{"left empty", nil, []string{"cooking"}, 0},
		{"right empty", []string{"cooking"}, nil, 0},
		{"both empty", nil, nil, 0},
		{"duplicates deduped", []string{"a", "a", "b"}, []string{"a", "b", "b"}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Similarity(tt.a, tt.b))
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a := []string{"cooking", "tai chi", "photography"}
	b := []string{"photography", "gaming"}
	assert.Equal(t, Similarity(a, b), Similarity(b, a))
}
