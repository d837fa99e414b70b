package screenconfig

import (
	"strings"

	"github.com/wonny/epscreen/internal/contracts"
)

// Config is the immutable screen configuration: thresholds and the fixed
// keyword list. Build it once (Default or Load) and pass it explicitly.
type Config struct {
	Meta    Meta    `yaml:"meta" json:"meta"`
	Metrics Metrics `yaml:"metrics" json:"metrics"`
	News    News    `yaml:"news" json:"news"`
	Scoring Scoring `yaml:"scoring" json:"scoring"`
}

// Meta 메타 정보
type Meta struct {
	Name    string `yaml:"name" json:"name" validate:"required"`
	Version string `yaml:"version" json:"version"`
}

// Metrics drives the gap/volume computation
type Metrics struct {
	ADVWindow       int    `yaml:"adv_window" json:"adv_window" validate:"min=1,max=250"`
	HistoryLookback string `yaml:"history_lookback" json:"history_lookback" validate:"required"`
}

// News drives the catalyst score
type News struct {
	LookbackDays int      `yaml:"lookback_days" json:"lookback_days" validate:"min=1"`
	Keywords     []string `yaml:"keywords" json:"keywords" validate:"min=1,dive,required"`
}

// Scoring holds the institutional interest tier thresholds
type Scoring struct {
	GapThreshold    float64 `yaml:"gap_threshold" json:"gap_threshold" validate:"gt=0"`
	VolRatioGood    float64 `yaml:"vol_ratio_good" json:"vol_ratio_good" validate:"gt=0"`
	GapThresholdMid float64 `yaml:"gap_threshold_mid" json:"gap_threshold_mid" validate:"gt=0,ltefield=GapThreshold"`
	VolRatioMid     float64 `yaml:"vol_ratio_mid" json:"vol_ratio_mid" validate:"gt=0,ltefield=VolRatioGood"`
	VolRatioMin     float64 `yaml:"vol_ratio_min" json:"vol_ratio_min" validate:"gt=0,ltefield=VolRatioMid"`
}

// DefaultKeywords spans earnings, M&A, regulatory and analyst-action vocabulary
var DefaultKeywords = []string{
	"earnings", "guidance", "revenue", "eps", "beats", "miss",
	"acquire", "acquisition", "merger", "partnership", "strategic",
	"approval", "fda", "phase", "contract", "order", "upgrade", "initiates coverage",
}

// Default returns the reference configuration
func Default() Config {
	kw := make([]string, len(DefaultKeywords))
	copy(kw, DefaultKeywords)

	return Config{
		Meta: Meta{
			Name:    "ep_screener",
			Version: "1",
		},
		Metrics: Metrics{
			ADVWindow:       50,
			HistoryLookback: "6mo",
		},
		News: News{
			LookbackDays: 90,
			Keywords:     kw,
		},
		Scoring: Scoring{
			GapThreshold:    0.10,
			VolRatioGood:    2.0,
			GapThresholdMid: 0.05,
			VolRatioMid:     1.5,
			VolRatioMin:     1.2,
		},
	}
}

// Keywords returns a lowercased copy of the keyword list
func (c Config) Keywords() []string {
	out := make([]string, 0, len(c.News.Keywords))
	for _, kw := range c.News.Keywords {
		out = append(out, strings.ToLower(kw))
	}
	return out
}

// Lookback returns the parsed history lookback period
func (c Config) Lookback() contracts.Period {
	p, err := contracts.ParsePeriod(c.Metrics.HistoryLookback)
	if err != nil {
		return contracts.Period{Months: 6}
	}
	return p
}
