package s0_data

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/epscreen/internal/contracts"
)

const testTicker = "ZZTEST"

const schemaDDL = `
	CREATE SCHEMA IF NOT EXISTS data;
	CREATE TABLE IF NOT EXISTS data.daily_prices (
		ticker      TEXT        NOT NULL,
		trade_date  TIMESTAMPTZ NOT NULL,
		open_price  DOUBLE PRECISION NOT NULL,
		close_price DOUBLE PRECISION NOT NULL,
		volume      DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (ticker, trade_date)
	);
	CREATE TABLE IF NOT EXISTS data.news (
		ticker       TEXT NOT NULL,
		title        TEXT NOT NULL,
		published_at TIMESTAMPTZ
	);
`

// openTestPool connects to DATABASE_URL or skips
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, schemaDDL)
	require.NoError(t, err)

	cleanup := func() {
		_, _ = pool.Exec(ctx, `DELETE FROM data.daily_prices WHERE ticker = $1`, testTicker)
		_, _ = pool.Exec(ctx, `DELETE FROM data.news WHERE ticker = $1`, testTicker)
	}
	cleanup()
	t.Cleanup(cleanup)

	return pool
}

func TestRepository_History(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()

	now := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	for i, d := range []time.Time{now.AddDate(0, -7, 0), now.AddDate(0, 0, -2), now.AddDate(0, 0, -1)} {
		_, err := pool.Exec(ctx,
			`INSERT INTO data.daily_prices (ticker, trade_date, open_price, close_price, volume) VALUES ($1, $2, $3, $4, $5)`,
			testTicker, d, 10.0+float64(i), 11.0+float64(i), 1000.0*float64(i+1))
		require.NoError(t, err)
	}

	repo := NewRepository(pool)
	repo.PriceRepository.now = func() time.Time { return now }

	history, err := repo.History(ctx, testTicker, contracts.Period{Months: 6})
	require.NoError(t, err)
	require.Len(t, history, 2, "bar older than lookback excluded")
	assert.True(t, history[0].Date.Before(history[1].Date))
	assert.Equal(t, 12.0, history[1].Open)
	assert.Equal(t, 3000.0, history[1].Volume)
}

func TestRepository_News(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()

	published := time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC)
	_, err := pool.Exec(ctx, `INSERT INTO data.news (ticker, title, published_at) VALUES ($1, $2, $3), ($1, $4, NULL)`,
		testTicker, "Earnings beat", published, "Undated")
	require.NoError(t, err)

	items, err := NewRepository(pool).News(ctx, testTicker)
	require.NoError(t, err)
	require.Len(t, items, 2)

	ts, ok := items[0].Published.Resolve()
	require.True(t, ok)
	assert.True(t, published.Equal(ts))
	assert.Equal(t, contracts.TimestampNone, items[1].Published.Kind())
}

func TestTimestampOf(t *testing.T) {
	assert.Equal(t, contracts.TimestampNone, timestampOf(nil).Kind())

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got, ok := timestampOf(&ts).Resolve()
	require.True(t, ok)
	assert.Equal(t, ts, got)
}
