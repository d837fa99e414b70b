package pipeline

import (
	"context"

	"github.com/wonny/epscreen/internal/contracts"
)

// combined joins independent history and news sources into one MarketData
type combined struct {
	history contracts.HistoryProvider
	news    contracts.NewsProvider
}

// CombineProviders builds a MarketData from separate sources.
// A nil news provider yields no headlines.
func CombineProviders(history contracts.HistoryProvider, news contracts.NewsProvider) contracts.MarketData {
	return &combined{history: history, news: news}
}

func (c *combined) History(ctx context.Context, ticker string, lookback contracts.Period) (contracts.PriceHistory, error) {
	return c.history.History(ctx, ticker, lookback)
}

func (c *combined) News(ctx context.Context, ticker string) ([]contracts.NewsItem, error) {
	if c.news == nil {
		return nil, nil
	}
	return c.news.News(ctx, ticker)
}
