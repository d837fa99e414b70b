package s2_signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/pkg/logger"
)

// flatHistory builds n sessions with constant open/close/volume
func flatHistory(n int, price, volume float64) contracts.PriceHistory {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	h := make(contracts.PriceHistory, n)
	for i := range h {
		h[i] = contracts.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   price,
			Close:  price,
			Volume: volume,
		}
	}
	return h
}

func TestMetricsEngine_InsufficientHistory(t *testing.T) {
	engine := NewMetricsEngine(50, logger.Nop())
	assert.Equal(t, 52, engine.MinBars())

	for _, n := range []int{0, 1, 2, 50, 51} {
		result, err := engine.Compute("AAPL", flatHistory(n, 10, 1000))
		require.NoError(t, err)
		assert.Nil(t, result, "n=%d", n)
	}

	result, err := engine.Compute("AAPL", flatHistory(52, 10, 1000))
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestMetricsEngine_Compute(t *testing.T) {
	engine := NewMetricsEngine(3, logger.Nop())

	h := flatHistory(5, 100, 1000)
	h[3].Close = 50
	h[4].Open = 55
	h[4].Close = 60
	h[4].Volume = 4000

	result, err := engine.Compute("AAPL", h)
	require.NoError(t, err)
	require.NotNil(t, result)

	// ADV over the last 3 sessions (1000, 1000, 4000) = 2000
	assert.InDelta(t, 0.10, result.GapPct, 1e-12)
	assert.InDelta(t, 2.0, result.VolRatio, 1e-12)
	assert.Equal(t, 60.0, result.Close)
	assert.Equal(t, h[4].Date, result.Date)
}

func TestMetricsEngine_GapSign(t *testing.T) {
	engine := NewMetricsEngine(2, logger.Nop())

	tests := []struct {
		name string
		open float64
		want float64
	}{
		{"gap up", 110, 0.10},
		{"gap down", 80, -0.20},
		{"flat", 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := flatHistory(4, 100, 1000)
			h[3].Open = tt.open

			result, err := engine.Compute("X", h)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, result.GapPct, 1e-12)
		})
	}
}

func TestMetricsEngine_VolumeFloor(t *testing.T) {
	engine := NewMetricsEngine(2, logger.Nop())

	// zero ADV: ratio falls back to raw volume
	h := flatHistory(4, 100, 0)
	result, err := engine.Compute("X", h)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.VolRatio)

	// ADV below 1 is floored at 1
	h = flatHistory(4, 100, 0)
	h[3].Volume = 1.5
	result, err = engine.Compute("X", h)
	require.NoError(t, err)
	assert.Equal(t, 1.5, result.VolRatio)
	assert.GreaterOrEqual(t, result.VolRatio, 0.0)
}

func TestMetricsEngine_ZeroPreviousClose(t *testing.T) {
	engine := NewMetricsEngine(2, logger.Nop())

	h := flatHistory(4, 100, 1000)
	h[2].Close = 0

	result, err := engine.Compute("X", h)
	assert.Error(t, err)
	assert.Nil(t, result)
}
