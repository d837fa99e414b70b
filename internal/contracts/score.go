package contracts

import (
	"math"
	"time"
)

// MetricResult holds the gap/volume metrics for the latest session.
// A nil *MetricResult means the history was too short.
type MetricResult struct {
	GapPct   float64   `json:"gap_pct"`   // signed fraction, unclamped
	VolRatio float64   `json:"vol_ratio"` // >= 0
	Close    float64   `json:"close"`
	Date     time.Time `json:"date"`
}

// SubScores are the four heuristic components of a row
type SubScores struct {
	FreshCatalyst         float64
	InstitutionalInterest float64
	JustifiedStory        float64
	ReratingPotential     float64
}

// ScoreRow is one ticker's line in the screen output.
// Three shapes exist:
//   - scored: every field set
//   - insufficient history: sub-scores present and zero, metrics unset
//   - failure: Error set, sub-scores and metrics absent
//
// Rows are built once and never mutated.
// ⭐ SSOT: 스크리닝 결과 행
type ScoreRow struct {
	Ticker                     string     `json:"ticker"`
	GapPct                     *float64   `json:"gap_pct,omitempty"`
	VolRatio                   *float64   `json:"vol_ratio,omitempty"`
	FreshCatalystScore         *float64   `json:"fresh_catalyst_score,omitempty"`
	InstitutionalInterestScore *float64   `json:"institutional_interest_score,omitempty"`
	JustifiedStoryScore        *float64   `json:"justified_story_score,omitempty"`
	ReratingPotential          *float64   `json:"rerating_potential,omitempty"`
	Overall                    float64    `json:"overall"`
	LastDate                   *time.Time `json:"last_date,omitempty"`
	Price                      *float64   `json:"price,omitempty"`
	Error                      string     `json:"error,omitempty"`
}

// NewScoredRow builds a fully populated row
func NewScoredRow(ticker string, m MetricResult, s SubScores, overall float64) ScoreRow {
	date := m.Date
	return ScoreRow{
		Ticker:                     ticker,
		GapPct:                     Float(m.GapPct),
		VolRatio:                   Float(m.VolRatio),
		FreshCatalystScore:         Float(s.FreshCatalyst),
		InstitutionalInterestScore: Float(s.InstitutionalInterest),
		JustifiedStoryScore:        Float(s.JustifiedStory),
		ReratingPotential:          Float(s.ReratingPotential),
		Overall:                    overall,
		LastDate:                   &date,
		Price:                      Float(m.Close),
	}
}

// NewInsufficientRow builds the zero-filled row for short histories
func NewInsufficientRow(ticker string) ScoreRow {
	return ScoreRow{
		Ticker:                     ticker,
		FreshCatalystScore:         Float(0),
		InstitutionalInterestScore: Float(0),
		JustifiedStoryScore:        Float(0),
		ReratingPotential:          Float(0),
		Overall:                    0,
	}
}

// NewFailureRow builds the error row; sub-score fields stay absent
func NewFailureRow(ticker string, err error) ScoreRow {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ScoreRow{
		Ticker:  ticker,
		Overall: 0,
		Error:   msg,
	}
}

// IsFailure reports whether the row is the failure shape
func (r ScoreRow) IsFailure() bool {
	return r.Error != ""
}

// IsInsufficient reports whether the row is the zero-filled shape
func (r ScoreRow) IsInsufficient() bool {
	return !r.IsFailure() && r.FreshCatalystScore != nil && r.VolRatio == nil
}

// FreshKey returns fresh_catalyst_score for ordering; absent sorts lowest
func (r ScoreRow) FreshKey() float64 {
	return valueOrNegInf(r.FreshCatalystScore)
}

// VolRatioKey returns vol_ratio for ordering; absent sorts lowest
func (r ScoreRow) VolRatioKey() float64 {
	return valueOrNegInf(r.VolRatio)
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

func valueOrNegInf(v *float64) float64 {
	if v == nil {
		return math.Inf(-1)
	}
	return *v
}
