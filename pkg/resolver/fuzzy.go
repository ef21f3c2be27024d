package resolver

import "strings"

// fuzzyThreshold is the minimum score a candidate must reach to count
// as a match.
const fuzzyThreshold = 0.6

// fuzzyMatch finds the best candidate for query, or "" when nothing
// scores at or above the threshold. Scoring favors containment in
// proportion to how much of the candidate the query covers, and two
// hostnames sharing their registrable domain score 0.8.
func fuzzyMatch(query string, candidates []string) string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(candidates) == 0 {
		return ""
	}

	best := ""
	bestScore := 0.0
	for _, candidate := range candidates {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		if query == candidate {
			return candidate
		}

		if strings.Contains(candidate, query) || strings.Contains(query, candidate) {
			if len(candidate) > 0 {
				if score := float64(len(query)) / float64(len(candidate)); score > bestScore {
					bestScore = score
					best = candidate
				}
			}
		}

		if sameRegistrableDomain(query, candidate) {
			if score := 0.8; score > bestScore {
				bestScore = score
				best = candidate
			}
		}
	}

	if bestScore < fuzzyThreshold {
		return ""
	}
	return best
}

// sameRegistrableDomain reports whether both strings look like hostnames
// and share their last two labels.
func sameRegistrableDomain(a, b string) bool {
	if !strings.Contains(a, ".") || !strings.Contains(b, ".") {
		return false
	}
	ap := strings.Split(a, ".")
	bp := strings.Split(b, ".")
	if len(ap) < 2 || len(bp) < 2 {
		return false
	}
	return ap[len(ap)-2] == bp[len(bp)-2] && ap[len(ap)-1] == bp[len(bp)-1]
}
