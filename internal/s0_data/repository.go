package s0_data

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/epscreen/internal/contracts"
)

// Repository serves both bars and headlines from PostgreSQL.
// Nothing is written back: the screener keeps no state between runs.
type Repository struct {
	*PriceRepository
	*NewsRepository
	pool *pgxpool.Pool
}

var _ contracts.MarketData = (*Repository)(nil)

// NewRepository creates a new Repository instance
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		PriceRepository: NewPriceRepository(pool),
		NewsRepository:  NewNewsRepository(pool),
		pool:            pool,
	}
}

// CountTickers reports how many tickers have bars, for status checks
func (r *Repository) CountTickers(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(DISTINCT ticker) FROM data.daily_prices`).Scan(&n)
	return n, err
}
