package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
	"github.com/alanyoungcy/cpmmquote/internal/domain"
)

// BookCache implements domain.BookCache. Each snapshot is stored as a JSON
// string at "book:{marketID}:{outcome}". A sorted set would collapse
// duplicate price levels, which must survive the round trip.
type BookCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewBookCache creates a BookCache. Book snapshots go stale quickly, so ttl
// should be short; zero disables expiry.
func NewBookCache(c *Client, ttl time.Duration) *BookCache {
	return &BookCache{rdb: c.Underlying(), ttl: ttl}
}

func bookKey(marketID string, outcome cpmm.Outcome) string {
	return "book:" + marketID + ":" + outcome.String()
}

// SetBook replaces the cached snapshot.
func (bc *BookCache) SetBook(ctx context.Context, snap domain.BookSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis: encode book %s: %w", snap.MarketID, err)
	}
	if err := bc.rdb.Set(ctx, bookKey(snap.MarketID, snap.Outcome), data, bc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set book %s: %w", snap.MarketID, err)
	}
	return nil
}

// GetBook returns domain.ErrNotFound on a cache miss.
func (bc *BookCache) GetBook(ctx context.Context, marketID string, outcome cpmm.Outcome) (domain.BookSnapshot, error) {
	data, err := bc.rdb.Get(ctx, bookKey(marketID, outcome)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.BookSnapshot{}, domain.ErrNotFound
		}
		return domain.BookSnapshot{}, fmt.Errorf("redis: get book %s: %w", marketID, err)
	}
	var snap domain.BookSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.BookSnapshot{}, fmt.Errorf("redis: decode book %s: %w", marketID, err)
	}
	return snap, nil
}

// Compile-time interface check.
var _ domain.BookCache = (*BookCache)(nil)
