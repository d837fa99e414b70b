package s0_data

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/epscreen/internal/contracts"
)

// PriceRepository reads daily bars collected into data.daily_prices
// ⭐ SSOT: 가격 데이터 조회는 여기서만 (읽기 전용)
type PriceRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool, now: time.Now}
}

// History implements contracts.HistoryProvider
func (r *PriceRepository) History(ctx context.Context, ticker string, lookback contracts.Period) (contracts.PriceHistory, error) {
	to := r.now().UTC()
	from := lookback.Start(to)

	query := `
		SELECT trade_date, open_price, close_price, volume
		FROM data.daily_prices
		WHERE ticker = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("query daily prices %s: %w", ticker, err)
	}
	defer rows.Close()

	history := make(contracts.PriceHistory, 0)
	for rows.Next() {
		var bar contracts.PriceBar
		if err := rows.Scan(&bar.Date, &bar.Open, &bar.Close, &bar.Volume); err != nil {
			return nil, fmt.Errorf("scan daily price %s: %w", ticker, err)
		}
		history = append(history, bar)
	}
	return history, rows.Err()
}
