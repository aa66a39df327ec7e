package turkish

// Distance computes the Levenshtein edit distance between two strings
// using the two-row Wagner-Fischer recurrence. Operands are compared rune
// by rune, so multi-byte Turkish letters count as single edits.
func Distance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1, len2 := len(r1), len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	// Keep the shorter string on the row axis to bound memory.
	if len1 > len2 {
		r1, r2 = r2, r1
		len1, len2 = len2, len1
	}

	prev := make([]int, len1+1)
	curr := make([]int, len1+1)
	for i := 0; i <= len1; i++ {
		prev[i] = i
	}

	for j := 1; j <= len2; j++ {
		curr[0] = j
		for i := 1; i <= len1; i++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[i] = minInt(prev[i]+1, minInt(curr[i-1]+1, prev[i-1]+cost))
		}
		prev, curr = curr, prev
	}

	return prev[len1]
}

// Match is a near-duplicate found by NearestMatch.
type Match struct {
	Name     string // the existing catalogue entry, original casing
	Distance int
}

// Typo thresholds: a candidate is considered a likely misspelling of an
// existing entry when the edit distance is 1 or 2 and the lengths differ
// by at most 2.
const (
	maxTypoDistance = 2
	maxTypoLenDiff  = 2
)

// NearestMatch scans existing catalogue names for the entry closest to
// candidate under the typo thresholds, comparing in Turkish lowercase.
// It returns the globally nearest match (lowest distance, first seen wins
// ties) or ok=false when nothing qualifies. An exact match (distance 0)
// does not qualify; callers handle exact duplicates separately.
func NearestMatch(candidate string, existing []string) (Match, bool) {
	candLower := Lower(candidate)
	candLen := len([]rune(candLower))

	best := Match{Distance: maxTypoDistance + 1}
	found := false
	for _, name := range existing {
		nameLower := Lower(name)
		diff := len([]rune(nameLower)) - candLen
		if diff < -maxTypoLenDiff || diff > maxTypoLenDiff {
			continue
		}
		d := Distance(candLower, nameLower)
		if d >= 1 && d <= maxTypoDistance && d < best.Distance {
			best = Match{Name: name, Distance: d}
			found = true
			if d == 1 {
				// Nothing can beat distance 1.
				break
			}
		}
	}
	return best, found
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
