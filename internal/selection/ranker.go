package selection

import (
	"sort"

	"github.com/wonny/epscreen/internal/contracts"
)

// Rank orders rows descending by (overall, fresh_catalyst_score, vol_ratio).
// Absent keys sort as negative infinity; fully tied rows keep input order.
// The input slice is not modified.
// ⭐ SSOT: 결과 정렬 순서는 여기서만
func Rank(rows []contracts.ScoreRow) []contracts.ScoreRow {
	ranked := make([]contracts.ScoreRow, len(rows))
	copy(ranked, rows)

	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[j], ranked[i])
	})

	return ranked
}

// less reports whether a ranks strictly below b
func less(a, b contracts.ScoreRow) bool {
	if a.Overall != b.Overall {
		return a.Overall < b.Overall
	}
	if af, bf := a.FreshKey(), b.FreshKey(); af != bf {
		return af < bf
	}
	return a.VolRatioKey() < b.VolRatioKey()
}
