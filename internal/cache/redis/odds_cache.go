package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
	"github.com/alanyoungcy/cpmmquote/internal/domain"
)

// OddsCache implements domain.OddsCache using one Redis hash per market at
// "odds:{marketID}" with fields pool_yes, pool_no and ts (Unix nanoseconds).
// Odds, K and liquidity are recomputed from the pools on read so the cache
// can never disagree with the pricing formulas.
type OddsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewOddsCache creates an OddsCache. A zero ttl keeps entries until
// invalidated.
func NewOddsCache(c *Client, ttl time.Duration) *OddsCache {
	return &OddsCache{rdb: c.Underlying(), ttl: ttl}
}

func oddsKey(marketID string) string { return "odds:" + marketID }

// SetOdds stores the pools behind odds.
func (oc *OddsCache) SetOdds(ctx context.Context, odds domain.MarketOdds) error {
	key := oddsKey(odds.MarketID)
	pipe := oc.rdb.TxPipeline()
	pipe.HSet(ctx, key, oddsFields(odds))
	if oc.ttl > 0 {
		pipe.Expire(ctx, key, oc.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set odds %s: %w", odds.MarketID, err)
	}
	return nil
}

// GetOdds returns domain.ErrNotFound when nothing is cached for marketID.
func (oc *OddsCache) GetOdds(ctx context.Context, marketID string) (domain.MarketOdds, error) {
	vals, err := oc.rdb.HGetAll(ctx, oddsKey(marketID)).Result()
	if err != nil {
		return domain.MarketOdds{}, fmt.Errorf("redis: get odds %s: %w", marketID, err)
	}
	odds, err := parseOdds(marketID, vals)
	if err != nil {
		return domain.MarketOdds{}, fmt.Errorf("redis: get odds %s: %w", marketID, err)
	}
	return odds, nil
}

// Invalidate drops the cached entry for marketID.
func (oc *OddsCache) Invalidate(ctx context.Context, marketID string) error {
	if err := oc.rdb.Del(ctx, oddsKey(marketID)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate odds %s: %w", marketID, err)
	}
	return nil
}

func oddsFields(odds domain.MarketOdds) map[string]interface{} {
	return map[string]interface{}{
		"pool_yes": strconv.FormatFloat(odds.Pools.Yes, 'g', -1, 64),
		"pool_no":  strconv.FormatFloat(odds.Pools.No, 'g', -1, 64),
		"ts":       strconv.FormatInt(odds.UpdatedAt.UnixNano(), 10),
	}
}

func parseOdds(marketID string, vals map[string]string) (domain.MarketOdds, error) {
	if len(vals) == 0 {
		return domain.MarketOdds{}, domain.ErrNotFound
	}
	yesStr, okYes := vals["pool_yes"]
	noStr, okNo := vals["pool_no"]
	if !okYes || !okNo {
		return domain.MarketOdds{}, domain.ErrNotFound
	}
	yes, err := strconv.ParseFloat(yesStr, 64)
	if err != nil {
		return domain.MarketOdds{}, fmt.Errorf("parse pool_yes: %w", err)
	}
	no, err := strconv.ParseFloat(noStr, 64)
	if err != nil {
		return domain.MarketOdds{}, fmt.Errorf("parse pool_no: %w", err)
	}

	pools := cpmm.Pools{Yes: yes, No: no}
	odds := domain.MarketOdds{
		MarketID:       marketID,
		Pools:          pools,
		Odds:           cpmm.CalculateOdds(pools),
		K:              cpmm.K(pools),
		TotalLiquidity: cpmm.TotalLiquidity(pools),
	}
	if ts, err := strconv.ParseInt(vals["ts"], 10, 64); err == nil {
		odds.UpdatedAt = time.Unix(0, ts)
	}
	return odds, nil
}

// Compile-time interface check.
var _ domain.OddsCache = (*OddsCache)(nil)
