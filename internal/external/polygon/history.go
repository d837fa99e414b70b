package polygon

import (
	"context"
	"fmt"
	"time"

	rmodels "github.com/polygon-io/client-go/rest/models"

	"github.com/wonny/epscreen/internal/contracts"
)

// maxAggs is the API page limit for aggregate requests
const maxAggs = 50000

// History fetches adjusted daily aggregates covering lookback, oldest first
func (c *Client) History(ctx context.Context, ticker string, lookback contracts.Period) (contracts.PriceHistory, error) {
	end := c.now().UTC()
	start := lookback.Start(end)

	params := &rmodels.ListAggsParams{
		Ticker:     ticker,
		Timespan:   rmodels.Day,
		Multiplier: 1,
		From:       rmodels.Millis(start),
		To:         rmodels.Millis(end),
	}
	limit := maxAggs
	asc := rmodels.Asc
	adjusted := true
	params.Limit = &limit
	params.Order = &asc
	params.Adjusted = &adjusted

	aggs, err := c.listAggs(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list aggs %s: %w", ticker, err)
	}

	history := make(contracts.PriceHistory, 0, len(aggs))
	for _, a := range aggs {
		history = append(history, contracts.PriceBar{
			Date:   time.Time(a.Timestamp).UTC(),
			Open:   a.Open,
			Close:  a.Close,
			Volume: a.Volume,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"bars":   len(history),
	}).Debug("Fetched history")

	return history, nil
}
