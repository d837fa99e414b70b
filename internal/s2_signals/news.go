package s2_signals

import (
	"math"
	"strings"
	"time"

	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/pkg/logger"
)

const (
	newsBaseScore  = 0.5  // every qualifying headline
	newsKeywordHit = 1.0  // per keyword found in the title
	newsItemCap    = 3.0  // per-headline cap
	newsTotalCap   = 10.0 // cap on the summed score
)

// NewsScorer turns recent headlines into a saturating catalyst score
// ⭐ SSOT: 뉴스 키워드 점수 계산은 여기서만
type NewsScorer struct {
	keywords []string // lowercased
	lookback time.Duration
	logger   *logger.Logger
}

// NewNewsScorer copies and lowercases keywords
func NewNewsScorer(keywords []string, lookbackDays int, log *logger.Logger) *NewsScorer {
	kw := make([]string, 0, len(keywords))
	for _, k := range keywords {
		kw = append(kw, strings.ToLower(k))
	}

	return &NewsScorer{
		keywords: kw,
		lookback: time.Duration(lookbackDays) * 24 * time.Hour,
		logger:   log,
	}
}

// Cutoff returns the oldest publish time still counted
func (s *NewsScorer) Cutoff(now time.Time) time.Time {
	return now.Add(-s.lookback)
}

// Score sums capped per-headline contributions for items published at or after cutoff.
// Items with a missing or unparseable timestamp are skipped.
func (s *NewsScorer) Score(ticker string, items []contracts.NewsItem, cutoff time.Time) float64 {
	var total float64
	counted := 0

	for _, item := range items {
		published, ok := item.Published.Resolve()
		if !ok {
			continue
		}
		if published.Before(cutoff) {
			continue
		}

		total += s.ItemScore(item.Title)
		counted++
	}

	score := math.Min(total, newsTotalCap)

	s.logger.WithFields(map[string]interface{}{
		"ticker":  ticker,
		"items":   len(items),
		"counted": counted,
		"score":   score,
	}).Debug("Calculated news score")

	return score
}

// ItemScore is one headline's contribution: base plus one per keyword hit, capped
func (s *NewsScorer) ItemScore(title string) float64 {
	lower := strings.ToLower(title)

	score := newsBaseScore
	for _, kw := range s.keywords {
		if strings.Contains(lower, kw) {
			score += newsKeywordHit
		}
	}

	return math.Min(score, newsItemCap)
}
