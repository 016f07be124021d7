// Package scramble randomizes the display order of a question's answer
// options and translates display-order indices back to canonical order.
//
// The mapping is created once per question per attempt and must be kept by
// the rendering client for the full lifetime of that question's display:
// re-scrambling on a re-render would detach a previously selected answer
// from its checked state, and losing the mapping would grade answers against
// the wrong option. The mapping is never persisted server side.
package scramble

import "math/rand"

// Mapping translates display-order indices back to canonical order:
// Mapping[displayIndex] = canonicalIndex.
type Mapping []int

// Scramble returns the options in a uniformly random display order together
// with the mapping back to canonical order. The permutation is an unbiased
// Fisher-Yates shuffle of the index set.
func Scramble(options []string) (displayOrder []string, mapping Mapping) {
	mapping = make(Mapping, len(options))
	for i := range mapping {
		mapping[i] = i
	}
	for i := len(mapping) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		mapping[i], mapping[j] = mapping[j], mapping[i]
	}

	displayOrder = make([]string, len(options))
	for i, canonical := range mapping {
		displayOrder[i] = options[canonical]
	}
	return displayOrder, mapping
}

// Unscramble translates a selected display index back to its canonical
// index. A nil display index (unanswered question) stays nil. The mapping
// must be the one produced at render time for this question.
func (m Mapping) Unscramble(displayIndex *int) *int {
	if displayIndex == nil {
		return nil
	}
	canonical := m[*displayIndex]
	return &canonical
}
