package rss

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/pkg/config"
	"github.com/wonny/epscreen/pkg/httputil"
	"github.com/wonny/epscreen/pkg/logger"
)

// Client reads per-ticker headline feeds
// ⭐ SSOT: RSS 헤드라인 수집은 여기서만
type Client struct {
	httpClient *httputil.Client
	feedURL    string // %s is replaced by the escaped ticker
	logger     *logger.Logger
}

// NewClient creates a feed client
func NewClient(httpClient *httputil.Client, cfg config.RSSConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		feedURL:    cfg.FeedURL,
		logger:     log.WithField("source", "rss"),
	}
}

// News fetches and parses the ticker's feed
func (c *Client) News(ctx context.Context, ticker string) ([]contracts.NewsItem, error) {
	feedURL := c.feedURL
	if strings.Contains(feedURL, "%s") {
		feedURL = fmt.Sprintf(feedURL, url.QueryEscape(ticker))
	}

	resp, err := c.httpClient.Get(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &httputil.StatusError{URL: feedURL, StatusCode: resp.StatusCode}
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", ticker, err)
	}

	items := make([]contracts.NewsItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		items = append(items, contracts.NewsItem{
			Title:     item.Title,
			Published: publishedAt(item),
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"items":  len(items),
	}).Debug("Fetched feed")

	return items, nil
}

// publishedAt prefers the parser's resolved time and falls back to the raw text
func publishedAt(item *gofeed.Item) contracts.Timestamp {
	switch {
	case item.PublishedParsed != nil:
		return contracts.EpochTimestamp(float64(item.PublishedParsed.Unix()))
	case item.UpdatedParsed != nil:
		return contracts.EpochTimestamp(float64(item.UpdatedParsed.Unix()))
	case item.Published != "":
		return contracts.TextTimestamp(item.Published)
	default:
		return contracts.Timestamp{}
	}
}
