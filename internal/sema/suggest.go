package sema

// maxSuggestDistance bounds how different a candidate may be from the
// misspelled name and still be offered as a suggestion.
const maxSuggestDistance = 2

// suggest returns the candidate closest to name within the edit
// distance bound, or "" if none qualifies. Ties keep the earliest
// candidate so suggestions are deterministic.
func suggest(name string, candidates []string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, cand := range candidates {
		if cand == name {
			continue
		}
		if d := editDistance(name, cand, maxSuggestDistance); d < bestDist {
			best = cand
			bestDist = d
		}
	}
	return best
}

// editDistance computes the Levenshtein distance between a and b,
// giving up early (returning max+1) once the distance must exceed max.
func editDistance(a, b string, max int) int {
	la, lb := len(a), len(b)
	if la-lb > max || lb-la > max {
		return max + 1
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > max {
			return max + 1
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
