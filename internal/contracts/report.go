package contracts

import "time"

// Report is everything a run hands to the renderers
// ⭐ SSOT: 렌더러로 전달되는 실행 결과
type Report struct {
	RunID       string      `json:"run_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	ConfigHash  string      `json:"config_hash"`
	Tickers     []string    `json:"tickers"`
	Rows        []ScoreRow  `json:"rows"` // ranked
	Diff        DiffResult  `json:"diff"`
	Stats       ReportStats `json:"stats"`
}

// ReportStats counts rows by shape
type ReportStats struct {
	Total        int `json:"total"`
	Scored       int `json:"scored"`
	Insufficient int `json:"insufficient"`
	Failed       int `json:"failed"`
}

// CountRows tallies row shapes
func CountRows(rows []ScoreRow) ReportStats {
	stats := ReportStats{Total: len(rows)}
	for _, r := range rows {
		switch {
		case r.IsFailure():
			stats.Failed++
		case r.IsInsufficient():
			stats.Insufficient++
		default:
			stats.Scored++
		}
	}
	return stats
}
