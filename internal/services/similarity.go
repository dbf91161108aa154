package services

import "math"

// Similarity scores interest overlap between two users as a Jaccard index
// scaled to 0-100: round(100 * |intersection| / |union|). Either collection
// being empty scores 0. Inputs are treated as unordered sets; duplicates
// within a list do not change the score.
func Similarity(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, v := range a {
		setA[v] = struct{}{}
	}

	union := make(map[string]struct{}, len(a)+len(b))
	for v := range setA {
		union[v] = struct{}{}
	}

	common := 0
	seenB := make(map[string]struct{}, len(b))
	for _, v := range b {
		if _, dup := seenB[v]; dup {
			continue
		}
		seenB[v] = struct{}{}
		if _, ok := setA[v]; ok {
			common++
		}
		union[v] = struct{}{}
	}

	return int(math.Round(float64(common) / float64(len(union)) * 100))
}
