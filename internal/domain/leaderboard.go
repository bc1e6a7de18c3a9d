package domain

import (
	"cmp"
	"slices"
)

// TopEntries returns at most limit entries ordered by score, highest first.
// Equal scores keep their input order. The input slice is not modified.
func TopEntries(entries []LeaderboardEntry, limit int) []LeaderboardEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b LeaderboardEntry) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Medal returns the podium label for the top three ranks, or "" otherwise.
func Medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return ""
}
