package report

import (
	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/internal/selection"
)

// dateLayout is used for last_date in every output format
const dateLayout = "2006-01-02"

// Record is one row as written to ep_report.json.
// gap_pct is a percentage; ratios and sub-scores are rounded to 2 decimals.
// Absent fields are omitted so the three row shapes stay distinguishable.
type Record struct {
	Ticker                     string   `json:"ticker"`
	Overall                    float64  `json:"overall"`
	GapPct                     *float64 `json:"gap_pct,omitempty"`
	VolRatio                   *float64 `json:"vol_ratio,omitempty"`
	FreshCatalystScore         *float64 `json:"fresh_catalyst_score,omitempty"`
	InstitutionalInterestScore *float64 `json:"institutional_interest_score,omitempty"`
	JustifiedStoryScore        *float64 `json:"justified_story_score,omitempty"`
	ReratingPotential          *float64 `json:"rerating_potential,omitempty"`
	LastDate                   string   `json:"last_date,omitempty"`
	Price                      *float64 `json:"price,omitempty"`
	Error                      string   `json:"error,omitempty"`
}

// Records converts ranked rows into output records, keeping order
func Records(rows []contracts.ScoreRow) []Record {
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		rec := Record{
			Ticker:                     r.Ticker,
			Overall:                    r.Overall,
			GapPct:                     scaled(r.GapPct, 100),
			VolRatio:                   scaled(r.VolRatio, 1),
			FreshCatalystScore:         scaled(r.FreshCatalystScore, 1),
			InstitutionalInterestScore: scaled(r.InstitutionalInterestScore, 1),
			JustifiedStoryScore:        scaled(r.JustifiedStoryScore, 1),
			ReratingPotential:          scaled(r.ReratingPotential, 1),
			Price:                      r.Price,
			Error:                      r.Error,
		}
		if r.LastDate != nil {
			rec.LastDate = r.LastDate.Format(dateLayout)
		}
		out = append(out, rec)
	}
	return out
}

func scaled(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	return contracts.Float(selection.Round2(*v * factor))
}
