package contracts

import "context"

// HistoryProvider returns daily bars for a ticker, oldest first. An empty
// history is a valid answer; an error means the fetch itself failed.
type HistoryProvider interface {
	History(ctx context.Context, ticker string, lookback Period) (PriceHistory, error)
}

// NewsProvider returns recent headlines for a ticker (possibly none)
type NewsProvider interface {
	News(ctx context.Context, ticker string) ([]NewsItem, error)
}

// MarketData is the per-ticker data source used by the pipeline
type MarketData interface {
	HistoryProvider
	NewsProvider
}

// UniverseHistory returns the previous version of the ticker list text.
// Any failure is reported as an empty string.
type UniverseHistory interface {
	PreviousUniverseText(ctx context.Context) string
}
