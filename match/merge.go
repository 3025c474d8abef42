package match

import "github.com/medterm/crosswalk/core"

// MergeByCode concatenates candidate lists in the given order and drops
// later candidates whose code was already emitted. Passing the lexical list
// first keeps exact and prefix hits ahead of semantic ones at equal rank.
func MergeByCode(lists ...[]core.MatchCandidate) []core.MatchCandidate {
	seen := make(map[string]bool)
	var merged []core.MatchCandidate
	for _, list := range lists {
		for _, candidate := range list {
			if seen[candidate.Code] {
				continue
			}
			seen[candidate.Code] = true
			merged = append(merged, candidate)
		}
	}
	return merged
}
