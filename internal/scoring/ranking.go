package scoring

import "sort"

// Ranked is one participant's scored and ranked entry. Key identifies the
// participant (typically a social id); ties in Score receive the same Rank.
type Ranked struct {
	Key   string
	Score float64
	Rank  int
}

// Rank sorts entries by descending score and assigns tie-preserving ranks:
// entries with equal scores (within epsilon) share the same rank, and the
// next distinct score continues from the number of entries ranked so far
// (so two entries tied for 1st are followed by a 3rd, not a 2nd). It fails
// with ErrEmptyGuesses if there is nothing to rank.
func Rank(keys []string, scores []float64) ([]Ranked, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyGuesses
	}
	n := len(keys)
	out := make([]Ranked, n)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	const epsilon = 1e-12
	rank := 0
	for i, idx := range order {
		if i == 0 || scores[order[i-1]]-scores[idx] > epsilon {
			rank = i + 1
		}
		out[i] = Ranked{Key: keys[idx], Score: scores[idx], Rank: rank}
	}
	return out, nil
}
