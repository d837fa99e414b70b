package s2_signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/internal/screenconfig"
	"github.com/wonny/epscreen/pkg/logger"
)

var scoreNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestScorer() *NewsScorer {
	return NewNewsScorer(screenconfig.DefaultKeywords, 90, logger.Nop())
}

func recentItem(title string) contracts.NewsItem {
	return contracts.NewsItem{
		Title:     title,
		Published: contracts.EpochTimestamp(float64(scoreNow.Add(-24 * time.Hour).Unix())),
	}
}

func TestNewsScorer_Cutoff(t *testing.T) {
	s := newTestScorer()
	assert.Equal(t, scoreNow.AddDate(0, 0, -90), s.Cutoff(scoreNow))
}

func TestNewsScorer_ItemScore(t *testing.T) {
	s := newTestScorer()

	tests := []struct {
		title string
		want  float64
	}{
		{"Company holds annual picnic", 0.5},
		{"Q2 EARNINGS released", 1.5},
		{"Earnings beat, guidance raised", 2.5},
		{"FDA approval after phase 3, earnings", 3.0}, // capped
		{"Analyst initiates coverage", 1.5},
		{"", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, s.ItemScore(tt.title))
		})
	}
}

func TestNewsScorer_ItemScore_CustomKeywordsCaseInsensitive(t *testing.T) {
	s := NewNewsScorer([]string{"Buyback"}, 90, logger.Nop())
	assert.Equal(t, 1.5, s.ItemScore("Board approves BUYBACK"))
}

func TestNewsScorer_Score(t *testing.T) {
	s := newTestScorer()
	cutoff := s.Cutoff(scoreNow)

	items := []contracts.NewsItem{
		recentItem("Earnings beat"), // "beats" does not match "beat"
		{Title: "Old merger news", Published: contracts.EpochTimestamp(float64(cutoff.Add(-time.Second).Unix()))},
		{Title: "No timestamp earnings"},
		{Title: "Garbage timestamp earnings", Published: contracts.TextTimestamp("yesterday")},
		{Title: "Acquisition closes", Published: contracts.TextTimestamp("2024-05-30T10:00:00Z")},
	}

	assert.Equal(t, 3.0, s.Score("X", items, cutoff))
}

func TestNewsScorer_ScoreAtCutoffCounts(t *testing.T) {
	s := newTestScorer()
	cutoff := s.Cutoff(scoreNow)

	items := []contracts.NewsItem{
		{Title: "plain", Published: contracts.EpochTimestamp(float64(cutoff.Unix()))},
	}
	assert.Equal(t, 0.5, s.Score("X", items, cutoff))
}

func TestNewsScorer_ScoreEmpty(t *testing.T) {
	s := newTestScorer()
	assert.Equal(t, 0.0, s.Score("X", nil, s.Cutoff(scoreNow)))
	assert.Equal(t, 0.0, s.Score("X", []contracts.NewsItem{}, s.Cutoff(scoreNow)))
}

func TestNewsScorer_MonotoneAndBounded(t *testing.T) {
	s := newTestScorer()
	cutoff := s.Cutoff(scoreNow)

	titles := []string{
		"plain", "earnings", "fda approval phase", "merger", "upgrade",
		"contract order", "revenue guidance", "plain again", "acquire",
	}

	var items []contracts.NewsItem
	prev := 0.0
	for i := 0; i < 30; i++ {
		items = append(items, recentItem(titles[i%len(titles)]))
		score := s.Score("X", items, cutoff)

		assert.GreaterOrEqual(t, score, prev)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 10.0)
		prev = score
	}
	assert.Equal(t, 10.0, prev, "total cap binds")
}
