package schema

import (
	"sort"
	"strconv"
)

const (
	// minSuggestionScore is the normalized similarity a name needs to be
	// offered as a suggestion.
	minSuggestionScore = 0.5
	maxSuggestions     = 3
)

// suggest returns the candidates closest to name, best first.
func suggest(name string, candidates []string) []string {
	type scored struct {
		name  string
		score float64
	}

	var matches []scored

	for _, cand := range candidates {
		score := levenshteinNormalized(name, cand)
		if score >= minSuggestionScore {
			matches = append(matches, scored{name: cand, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]string, 0, min(len(matches), maxSuggestions))
	for i := 0; i < len(matches) && i < maxSuggestions; i++ {
		out = append(out, matches[i].name)
	}

	return out
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	// Ensure a is the shorter string for space optimization
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// levenshteinNormalized scores similarity between 0 (unrelated) and 1 (equal).
func levenshteinNormalized(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	maxLen := max(len(b), len(a))

	return 1.0 - float64(levenshtein(a, b))/float64(maxLen)
}

func quote(s string) string {
	return strconv.Quote(s)
}
