package matching

// Ratio scores the similarity of two strings in [0,1] using
// character-sequence matching: twice the number of characters covered by
// matching blocks, divided by the combined length.
//
// Identical strings score 1.0 (including two empty strings); strings with
// no characters in common score 0.0. Ratio has no side effects.
func Ratio(a, b string) float64 {
	ar, br := []rune(a), []rune(b)

	if len(ar) == 0 && len(br) == 0 {
		return 1.0
	}
	if len(ar) == 0 || len(br) == 0 {
		return 0.0
	}

	matched := matchingChars(ar, br, 0, len(ar), 0, len(br))
	return 2.0 * float64(matched) / float64(len(ar)+len(br))
}

// matchingChars counts characters covered by matching blocks: it finds the
// longest common run within the window, then recurses into the regions on
// either side of it.
func matchingChars(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}

	return size +
		matchingChars(a, b, alo, i, blo, j) +
		matchingChars(a, b, i+size, ahi, j+size, bhi)
}

// longestMatch finds the longest run of identical characters within
// a[alo:ahi] and b[blo:bhi], preferring the earliest position on ties.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo

	// runLens[j] is the length of the common run ending at a[i-1], b[j].
	runLens := make(map[int]int)
	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := runLens[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		runLens = next
	}

	return besti, bestj, bestsize
}
