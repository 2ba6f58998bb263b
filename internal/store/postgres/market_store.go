package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
	"github.com/alanyoungcy/cpmmquote/internal/domain"
)

// MarketStore implements domain.MarketStore using PostgreSQL.
type MarketStore struct {
	pool *pgxpool.Pool
}

// NewMarketStore creates a new MarketStore backed by the given pool.
func NewMarketStore(pool *pgxpool.Pool) *MarketStore {
	return &MarketStore{pool: pool}
}

const marketColumns = `
	id::text, title, category, ends_at,
	pool_yes::float8, pool_no::float8, initial_k::float8,
	outcome, resolved_at`

func scanMarket(row pgx.Row) (domain.Market, error) {
	var m domain.Market
	var category string
	err := row.Scan(
		&m.ID, &m.Title, &category, &m.EndsAt,
		&m.Pools.Yes, &m.Pools.No, &m.InitialK,
		&m.Outcome, &m.ResolvedAt,
	)
	if err != nil {
		return domain.Market{}, err
	}
	m.Category = domain.MarketCategory(category)
	return m, nil
}

// GetByID returns a single market.
func (s *MarketStore) GetByID(ctx context.Context, id string) (domain.Market, error) {
	query := `SELECT ` + marketColumns + ` FROM markets WHERE id::text = $1`
	m, err := scanMarket(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Market{}, fmt.Errorf("postgres: market %s: %w", id, domain.ErrNotFound)
		}
		return domain.Market{}, fmt.Errorf("postgres: get market %s: %w", id, err)
	}
	return m, nil
}

// GetPools reads only the two pool balances.
func (s *MarketStore) GetPools(ctx context.Context, id string) (cpmm.Pools, error) {
	const query = `SELECT pool_yes::float8, pool_no::float8 FROM markets WHERE id::text = $1`
	var p cpmm.Pools
	if err := s.pool.QueryRow(ctx, query, id).Scan(&p.Yes, &p.No); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cpmm.Pools{}, fmt.Errorf("postgres: market %s: %w", id, domain.ErrNotFound)
		}
		return cpmm.Pools{}, fmt.Errorf("postgres: get pools %s: %w", id, err)
	}
	return p, nil
}

// ListOpen returns unresolved markets ordered by closing time.
func (s *MarketStore) ListOpen(ctx context.Context, opts domain.ListOpts) ([]domain.Market, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + marketColumns + `
		FROM markets
		WHERE outcome IS NULL
		ORDER BY ends_at ASC
		LIMIT $1 OFFSET $2`

	rows, err := s.pool.Query(ctx, query, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("postgres: list open markets: %w", err)
	}
	defer rows.Close()

	var markets []domain.Market
	for rows.Next() {
		m, err := scanMarket(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan market: %w", err)
		}
		markets = append(markets, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list open markets: %w", err)
	}
	return markets, nil
}

// Compile-time interface check.
var _ domain.MarketStore = (*MarketStore)(nil)
