package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/pkg/config"
	"github.com/wonny/epscreen/pkg/httputil"
	"github.com/wonny/epscreen/pkg/logger"
)

var fixedNow = time.Date(2024, 6, 3, 21, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(
		httputil.New(&config.Config{}, logger.Nop()),
		config.YahooConfig{
			ChartURL:  server.URL + "/v8/finance/chart",
			SearchURL: server.URL + "/v1/finance/search",
		},
		logger.Nop(),
	)
	c.now = func() time.Time { return fixedNow }
	return c
}

const chartBody = `{
  "chart": {
    "result": [{
      "timestamp": [1717075800, 1717162200, 1717421400],
      "indicators": {"quote": [{
        "open":   [100.0, null, 112.5],
        "close":  [101.0, 102.0, 115.0],
        "volume": [1000, 1200, 5000]
      }]}
    }],
    "error": null
  }
}`

func TestHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))

		start := fixedNow.AddDate(0, -6, 0)
		assert.Equal(t, strconv.FormatInt(start.Unix(), 10), r.URL.Query().Get("period1"))
		assert.Equal(t, strconv.FormatInt(fixedNow.Unix(), 10), r.URL.Query().Get("period2"))

		_, _ = w.Write([]byte(chartBody))
	})

	history, err := c.History(context.Background(), "AAPL", contracts.Period{Months: 6})
	require.NoError(t, err)
	require.Len(t, history, 2, "null open row dropped")

	assert.Equal(t, time.Unix(1717075800, 0).UTC(), history[0].Date)
	assert.Equal(t, 100.0, history[0].Open)
	assert.Equal(t, 112.5, history[1].Open)
	assert.Equal(t, 115.0, history[1].Close)
	assert.Equal(t, 5000.0, history[1].Volume)
}

func TestHistory_NotFoundIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	})

	history, err := c.History(context.Background(), "GONE", contracts.Period{Months: 6})
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistory_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.History(context.Background(), "AAPL", contracts.Period{Months: 6})
	var statusErr *httputil.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestParseChart(t *testing.T) {
	tests := []struct {
		name    string
		body    chartResponse
		want    int
		wantErr bool
	}{
		{"empty result", chartResponse{}, 0, false},
		{"chart error", func() chartResponse {
			var r chartResponse
			r.Chart.Error = &struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			}{"Bad Request", "invalid"}
			return r
		}(), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseChart(tt.body)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestNews(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/finance/search", r.URL.Path)
		assert.Equal(t, "NVDA", r.URL.Query().Get("q"))
		assert.Equal(t, "20", r.URL.Query().Get("newsCount"))

		_, _ = w.Write([]byte(`{"news":[
			{"title":"NVDA beats earnings","publisher":"X","providerPublishTime":1717000000},
			{"title":"No time"}
		]}`))
	})

	items, err := c.News(context.Background(), "NVDA")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "NVDA beats earnings", items[0].Title)
	assert.Equal(t, contracts.TimestampEpoch, items[0].Published.Kind())
	ts, ok := items[0].Published.Resolve()
	require.True(t, ok)
	assert.Equal(t, int64(1717000000), ts.Unix())

	_, ok = items[1].Published.Resolve()
	assert.False(t, ok)
}

func TestNews_Error(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.News(context.Background(), "NVDA")
	assert.Error(t, err)
}
