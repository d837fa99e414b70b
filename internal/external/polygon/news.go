package polygon

import (
	"context"
	"fmt"
	"net/http"

	polygonrest "github.com/polygon-io/client-go/rest"
	rmodels "github.com/polygon-io/client-go/rest/models"

	"github.com/wonny/epscreen/internal/contracts"
)

// newsLimit is the page size for reference news
const newsLimit = 50

// newsResponse holds the fields we read from /v2/reference/news.
// published_utc stays a contracts.Timestamp so one bad date does not fail the page.
type newsResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Title        string              `json:"title"`
		ArticleURL   string              `json:"article_url"`
		PublishedUTC contracts.Timestamp `json:"published_utc"`
	} `json:"results"`
}

// newsFunc fetches one page of reference news
type newsFunc func(ctx context.Context, params *rmodels.ListTickerNewsParams) (*newsResponse, error)

// restNews calls the news endpoint through the SDK so the key rides in the
// Authorization header and never in the request URI
func restNews(rest *polygonrest.Client) newsFunc {
	return func(ctx context.Context, params *rmodels.ListTickerNewsParams) (*newsResponse, error) {
		var resp newsResponse
		if err := rest.Call(ctx, http.MethodGet, polygonrest.ListTickerNewsPath, params, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	}
}

// News fetches the most recent reference news for ticker
func (c *Client) News(ctx context.Context, ticker string) ([]contracts.NewsItem, error) {
	params := rmodels.ListTickerNewsParams{}.
		WithTicker(rmodels.EQ, ticker).
		WithSort(rmodels.PublishedUTC).
		WithOrder(rmodels.Desc).
		WithLimit(newsLimit)

	resp, err := c.listNews(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetch news %s: %w", ticker, err)
	}

	items := make([]contracts.NewsItem, 0, len(resp.Results))
	for _, r := range resp.Results {
		items = append(items, contracts.NewsItem{
			Title:     r.Title,
			Published: r.PublishedUTC,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"items":  len(items),
	}).Debug("Fetched news")

	return items, nil
}
