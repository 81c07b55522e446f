package migrator

import "strings"

// CompareVersions orders two version tokens. Tokens made only of digits
// compare numerically, so leading zeros do not matter; equal values then
// fall back to the raw text to keep the order total. Any other pair compares
// lexicographically. Tokens are never interpreted as times.
func CompareVersions(a, b string) int {
	if isDigits(a) && isDigits(b) {
		na, nb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if len(na) != len(nb) {
			if len(na) < len(nb) {
				return -1
			}
			return 1
		}
		if c := strings.Compare(na, nb); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
