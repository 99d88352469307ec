// Package ranking orders scored competitors and assigns tie-sharing places.
package ranking

import (
	"slices"
	"strconv"
	"strings"
)

// Entry is one (identity, score) pair to be ranked.
type Entry struct {
	ID    int
	Score float64
}

// Placement is the outcome for one entry.
type Placement struct {
	Entry
	Position int    // 1-based position in output order
	Label    string // all positions shared with exact ties, e.g. "4-5-6"
}

// Rank returns placements ordered by score descending. Entries with equal
// scores keep their input order and share one label listing every position
// in their block. Ties are exact float64 equality; nearly equal scores are
// distinct. The input slice is not modified.
func Rank(entries []Entry) []Placement {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	out := make([]Placement, len(sorted))
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && sorted[end].Score == sorted[start].Score {
			end++
		}
		label := blockLabel(start+1, end)
		for i := start; i < end; i++ {
			out[i] = Placement{Entry: sorted[i], Position: i + 1, Label: label}
		}
		start = end
	}
	return out
}

// Groups counts the tie blocks with more than one member.
func Groups(placements []Placement) int {
	n := 0
	for i := 1; i < len(placements); i++ {
		if placements[i].Label == placements[i-1].Label &&
			(i == 1 || placements[i-2].Label != placements[i].Label) {
			n++
		}
	}
	return n
}

// blockLabel joins positions first..last with hyphens.
func blockLabel(first, last int) string {
	if first == last {
		return strconv.Itoa(first)
	}
	var b strings.Builder
	for p := first; p <= last; p++ {
		if p > first {
			b.WriteByte('-')
		}
		b.WriteString(strconv.Itoa(p))
	}
	return b.String()
}
