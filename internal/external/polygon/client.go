package polygon

import (
	"context"
	"time"

	polygonrest "github.com/polygon-io/client-go/rest"
	rmodels "github.com/polygon-io/client-go/rest/models"

	"github.com/wonny/epscreen/pkg/config"
	"github.com/wonny/epscreen/pkg/httputil"
	"github.com/wonny/epscreen/pkg/logger"
)

// aggsFunc lists aggregate bars; the SDK iterator is drained behind it
type aggsFunc func(ctx context.Context, params *rmodels.ListAggsParams) ([]rmodels.Agg, error)

// Client reads daily aggregates and reference news from Polygon.io
// ⭐ SSOT: Polygon API 호출은 이 클라이언트에서만
type Client struct {
	listAggs aggsFunc
	listNews newsFunc
	now      func() time.Time
	logger   *logger.Logger
}

// NewClient creates a Polygon client on the rate-limited transport of httpClient.
// The API key is sent as a bearer token; it never appears in a request URI.
func NewClient(httpClient *httputil.Client, cfg config.PolygonConfig, log *logger.Logger) *Client {
	rest := polygonrest.NewWithClient(cfg.APIKey, httpClient.HTTPClient())
	if cfg.BaseURL != "" {
		rest.HTTP.SetBaseURL(cfg.BaseURL)
	}
	// 요청은 한 번만: SDK 기본 재시도(3회) 끔
	rest.HTTP.SetRetryCount(0)

	return &Client{
		listAggs: restAggs(rest),
		listNews: restNews(rest),
		now:      time.Now,
		logger:   log.WithField("source", "polygon"),
	}
}

func restAggs(rest *polygonrest.Client) aggsFunc {
	return func(ctx context.Context, params *rmodels.ListAggsParams) ([]rmodels.Agg, error) {
		iter := rest.ListAggs(ctx, params)

		var aggs []rmodels.Agg
		for iter.Next() {
			aggs = append(aggs, iter.Item())
		}
		if err := iter.Err(); err != nil {
			return nil, err
		}
		return aggs, nil
	}
}
