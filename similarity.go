package transmem

import "sort"

// Ratio computes the Ratcliff/Obershelp similarity of two strings as a value
// in [0.0, 1.0]: twice the total size of the longest matching blocks divided
// by the combined length. Two empty strings have ratio 1.0. The computation
// runs over runes, so multi-byte text compares by character, not by byte.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingSize(ra, rb)) / float64(len(ra)+len(rb))
}

// Match is one similarity-qualified candidate returned by FindMatches.
type Match struct {
	Index     int // position in the candidate slice
	Candidate string
	Score     float64
}

// FindMatches scores query against every candidate and returns the ones at
// or above threshold, sorted descending by score. The sort is stable: ties
// keep candidate order, and no secondary key is applied.
func FindMatches(query string, candidates []string, threshold float64) []Match {
	var matches []Match
	for i, c := range candidates {
		score := Ratio(query, c)
		if score >= threshold {
			matches = append(matches, Match{Index: i, Candidate: c, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

type matchSpan struct {
	alo, ahi, blo, bhi int
}

// matchingSize returns the total length of the longest matching blocks
// between ra and rb, found by recursively splitting around the longest
// common block on each side.
func matchingSize(ra, rb []rune) int {
	b2j := make(map[rune][]int, len(rb))
	for j, r := range rb {
		b2j[r] = append(b2j[r], j)
	}

	total := 0
	queue := []matchSpan{{0, len(ra), 0, len(rb)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(ra, b2j, s)
		if k == 0 {
			continue
		}
		total += k
		if s.alo < i && s.blo < j {
			queue = append(queue, matchSpan{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, matchSpan{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return total
}

// longestMatch finds the longest block of ra[s.alo:s.ahi] that also occurs
// in rb[s.blo:s.bhi], preferring the earliest such block on ties.
func longestMatch(ra []rune, b2j map[rune][]int, s matchSpan) (besti, bestj, bestsize int) {
	besti, bestj = s.alo, s.blo
	j2len := make(map[int]int)
	for i := s.alo; i < s.ahi; i++ {
		next := make(map[int]int)
		for _, j := range b2j[ra[i]] {
			if j < s.blo {
				continue
			}
			if j >= s.bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, bestsize
}
