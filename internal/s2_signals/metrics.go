package s2_signals

import (
	"fmt"
	"math"

	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/pkg/logger"
)

// MetricsEngine computes gap and volume-ratio metrics from daily bars
// ⭐ SSOT: 갭/거래량 지표 계산은 여기서만
type MetricsEngine struct {
	window int // ADV window in sessions
	logger *logger.Logger
}

// NewMetricsEngine creates a metrics engine with the given ADV window
func NewMetricsEngine(window int, log *logger.Logger) *MetricsEngine {
	return &MetricsEngine{
		window: window,
		logger: log,
	}
}

// MinBars is the shortest usable history: the ADV window plus two sessions
func (e *MetricsEngine) MinBars() int {
	return e.window + 2
}

// Compute returns the latest session's metrics.
// A short history returns (nil, nil): insufficient data is a result, not an error.
func (e *MetricsEngine) Compute(ticker string, history contracts.PriceHistory) (*contracts.MetricResult, error) {
	if len(history) < e.MinBars() {
		e.logger.WithFields(map[string]interface{}{
			"ticker":   ticker,
			"bars":     len(history),
			"min_bars": e.MinBars(),
		}).Debug("Insufficient price history")
		return nil, nil
	}

	last := history[len(history)-1]
	prev := history[len(history)-2]

	if prev.Close == 0 {
		return nil, fmt.Errorf("previous close is zero on %s", prev.Date.Format("2006-01-02"))
	}

	adv := e.averageVolume(history)
	gapPct := (last.Open - prev.Close) / prev.Close
	volRatio := last.Volume / math.Max(1.0, adv)

	result := &contracts.MetricResult{
		GapPct:   gapPct,
		VolRatio: volRatio,
		Close:    last.Close,
		Date:     last.Date,
	}

	e.logger.WithFields(map[string]interface{}{
		"ticker":    ticker,
		"gap_pct":   gapPct,
		"vol_ratio": volRatio,
		"adv":       adv,
	}).Debug("Calculated gap metrics")

	return result, nil
}

// averageVolume is the simple moving average of volume over the last window sessions,
// ending at (and including) the most recent one
func (e *MetricsEngine) averageVolume(history contracts.PriceHistory) float64 {
	recent := history[len(history)-e.window:]

	var sum float64
	for _, bar := range recent {
		sum += bar.Volume
	}
	return sum / float64(len(recent))
}
