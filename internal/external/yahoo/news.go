package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/wonny/epscreen/internal/contracts"
)

// searchResponse holds the news part of the search payload.
// providerPublishTime is epoch seconds.
type searchResponse struct {
	News []struct {
		Title               string              `json:"title"`
		Publisher           string              `json:"publisher"`
		ProviderPublishTime contracts.Timestamp `json:"providerPublishTime"`
	} `json:"news"`
}

// News fetches recent headlines for ticker
func (c *Client) News(ctx context.Context, ticker string) ([]contracts.NewsItem, error) {
	params := url.Values{}
	params.Set("q", ticker)
	params.Set("quotesCount", "0")
	params.Set("newsCount", strconv.Itoa(c.newsCount))

	fullURL := fmt.Sprintf("%s?%s", c.searchURL, params.Encode())

	var resp searchResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return nil, fmt.Errorf("fetch news %s: %w", ticker, err)
	}

	items := make([]contracts.NewsItem, 0, len(resp.News))
	for _, n := range resp.News {
		items = append(items, contracts.NewsItem{
			Title:     n.Title,
			Published: n.ProviderPublishTime,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"items":  len(items),
	}).Debug("Fetched news")

	return items, nil
}
