package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/pkg/httputil"
)

// chartResponse mirrors the v8 chart payload; any quote value may be null
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches daily bars covering lookback, oldest first.
// An unknown symbol (404) is an empty history, not an error.
func (c *Client) History(ctx context.Context, ticker string, lookback contracts.Period) (contracts.PriceHistory, error) {
	end := c.now().UTC()
	start := lookback.Start(end)

	params := url.Values{}
	params.Set("period1", strconv.FormatInt(start.Unix(), 10))
	params.Set("period2", strconv.FormatInt(end.Unix(), 10))
	params.Set("interval", "1d")
	params.Set("includePrePost", "false")

	fullURL := fmt.Sprintf("%s/%s?%s", c.chartURL, url.PathEscape(ticker), params.Encode())

	var resp chartResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			c.logger.WithField("ticker", ticker).Debug("Symbol not found, treating as empty history")
			return contracts.PriceHistory{}, nil
		}
		return nil, fmt.Errorf("fetch chart %s: %w", ticker, err)
	}

	history, err := parseChart(resp)
	if err != nil {
		return nil, fmt.Errorf("parse chart %s: %w", ticker, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"bars":   len(history),
	}).Debug("Fetched history")

	return history, nil
}

// parseChart converts the columnar payload into bars, dropping sessions with null values
func parseChart(resp chartResponse) (contracts.PriceHistory, error) {
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("%s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return contracts.PriceHistory{}, nil
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return contracts.PriceHistory{}, nil
	}
	quote := result.Indicators.Quote[0]

	n := len(result.Timestamp)
	if len(quote.Open) != n || len(quote.Close) != n || len(quote.Volume) != n {
		return nil, fmt.Errorf("column length mismatch: timestamps=%d open=%d close=%d volume=%d",
			n, len(quote.Open), len(quote.Close), len(quote.Volume))
	}

	history := make(contracts.PriceHistory, 0, n)
	for i, ts := range result.Timestamp {
		if quote.Open[i] == nil || quote.Close[i] == nil || quote.Volume[i] == nil {
			continue
		}
		history = append(history, contracts.PriceBar{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   *quote.Open[i],
			Close:  *quote.Close[i],
			Volume: *quote.Volume[i],
		})
	}

	return history, nil
}
