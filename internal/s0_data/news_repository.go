package s0_data

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/epscreen/internal/contracts"
)

// defaultNewsLimit caps headlines read per ticker
const defaultNewsLimit = 100

// NewsRepository reads headlines collected into data.news
type NewsRepository struct {
	pool  *pgxpool.Pool
	limit int
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(pool *pgxpool.Pool) *NewsRepository {
	return &NewsRepository{pool: pool, limit: defaultNewsLimit}
}

// News implements contracts.NewsProvider. A NULL published_at stays a missing timestamp.
func (r *NewsRepository) News(ctx context.Context, ticker string) ([]contracts.NewsItem, error) {
	query := `
		SELECT title, published_at
		FROM data.news
		WHERE ticker = $1
		ORDER BY published_at DESC NULLS LAST
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ticker, r.limit)
	if err != nil {
		return nil, fmt.Errorf("query news %s: %w", ticker, err)
	}
	defer rows.Close()

	items := make([]contracts.NewsItem, 0)
	for rows.Next() {
		var (
			title     string
			published *time.Time
		)
		if err := rows.Scan(&title, &published); err != nil {
			return nil, fmt.Errorf("scan news %s: %w", ticker, err)
		}
		items = append(items, contracts.NewsItem{
			Title:     title,
			Published: timestampOf(published),
		})
	}
	return items, rows.Err()
}

func timestampOf(t *time.Time) contracts.Timestamp {
	if t == nil {
		return contracts.Timestamp{}
	}
	return contracts.EpochTimestamp(float64(t.Unix()))
}
