package fuzzy

// minLengthRatio is the length-ratio floor below which two strings are
// scored by their length ratio alone.
const minLengthRatio = 0.5

// SimilarityRatio returns a symmetric score in [0, 1] for a and b:
// 2*M/T where M is the longest common subsequence of the normalized byte
// strings and T is their combined byte length.
func SimilarityRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	return normalizedRatio(NormalizeText(a), NormalizeText(b))
}

// normalizedRatio is SimilarityRatio for strings that already went through
// NormalizeText.
func normalizedRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	shorter, longer := len(a), len(b)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	lengthRatio := float64(shorter) / float64(longer)
	if lengthRatio < minLengthRatio {
		return lengthRatio
	}

	matches := lcsLength(a, b)
	return 2 * float64(matches) / float64(len(a)+len(b))
}

// lcsLength returns the byte-level longest common subsequence length of a
// and b using two rolling rows sized to the shorter input.
func lcsLength(a, b string) int {
	if len(b) > len(a) {
		a, b = b, a
	}
	n := len(b)
	if n == 0 {
		return 0
	}

	buf := make([]int, 2*(n+1))
	prev, curr := buf[:n+1], buf[n+1:]

	for i := 0; i < len(a); i++ {
		ai := a[i]
		for j := 1; j <= n; j++ {
			if ai == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(curr[j-1], prev[j])
			}
		}
		prev, curr = curr, prev
	}
	return prev[n]
}
