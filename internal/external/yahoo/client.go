package yahoo

import (
	"time"

	"github.com/wonny/epscreen/pkg/config"
	"github.com/wonny/epscreen/pkg/httputil"
	"github.com/wonny/epscreen/pkg/logger"
)

// Client reads daily bars and headlines from Yahoo Finance
// ⭐ SSOT: Yahoo Finance API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	chartURL   string
	searchURL  string
	newsCount  int
	now        func() time.Time
	logger     *logger.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, cfg config.YahooConfig, log *logger.Logger) *Client {
	newsCount := cfg.NewsCount
	if newsCount <= 0 {
		newsCount = 20
	}

	return &Client{
		httpClient: httpClient,
		chartURL:   cfg.ChartURL,
		searchURL:  cfg.SearchURL,
		newsCount:  newsCount,
		now:        time.Now,
		logger:     log.WithField("source", "yahoo"),
	}
}
