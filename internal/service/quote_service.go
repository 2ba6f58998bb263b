// Package service coordinates stores, caches and the pricing packages for
// the HTTP handlers and background loops.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
	"github.com/alanyoungcy/cpmmquote/internal/domain"
	"github.com/alanyoungcy/cpmmquote/internal/metrics"
)

// QuoteService prices CPMM trades against stored pool state. It never writes
// pools back; the backend's trade procedures commit the same formulas.
type QuoteService struct {
	markets domain.MarketStore
	cache   domain.OddsCache
	logger  *slog.Logger
	now     func() time.Time
}

// NewQuoteService creates a QuoteService. cache may be nil, in which case
// every lookup goes to the store.
func NewQuoteService(markets domain.MarketStore, cache domain.OddsCache, logger *slog.Logger) *QuoteService {
	return &QuoteService{
		markets: markets,
		cache:   cache,
		logger:  logger.With(slog.String("component", "quote_service")),
		now:     time.Now,
	}
}

// Odds returns the priced pools for a market.
func (s *QuoteService) Odds(ctx context.Context, marketID string) (domain.MarketOdds, error) {
	if s.cache != nil {
		odds, err := s.cache.GetOdds(ctx, marketID)
		switch {
		case err == nil:
			metrics.ObserveCache("odds", "hit")
			return odds, nil
		case errors.Is(err, domain.ErrNotFound):
			metrics.ObserveCache("odds", "miss")
		default:
			metrics.ObserveCache("odds", "error")
			s.logger.WarnContext(ctx, "quote_service: odds cache read failed",
				slog.String("market_id", marketID),
				slog.String("error", err.Error()),
			)
		}
	}
	return s.Refresh(ctx, marketID)
}

// Refresh reloads pools from the store and repopulates the cache.
func (s *QuoteService) Refresh(ctx context.Context, marketID string) (domain.MarketOdds, error) {
	pools, err := s.markets.GetPools(ctx, marketID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) && s.cache != nil {
			_ = s.cache.Invalidate(ctx, marketID)
		}
		return domain.MarketOdds{}, fmt.Errorf("quote_service: load pools %s: %w", marketID, err)
	}
	odds := s.price(marketID, pools)
	s.cacheOdds(ctx, odds)
	return odds, nil
}

func (s *QuoteService) price(marketID string, pools cpmm.Pools) domain.MarketOdds {
	return domain.MarketOdds{
		MarketID:       marketID,
		Pools:          pools,
		Odds:           cpmm.CalculateOdds(pools),
		K:              cpmm.K(pools),
		TotalLiquidity: cpmm.TotalLiquidity(pools),
		UpdatedAt:      s.now(),
	}
}

func (s *QuoteService) cacheOdds(ctx context.Context, odds domain.MarketOdds) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetOdds(ctx, odds); err != nil {
		s.logger.WarnContext(ctx, "quote_service: odds cache write failed",
			slog.String("market_id", odds.MarketID),
			slog.String("error", err.Error()),
		)
	}
}

// Preview quotes a trade against the stored pools of an open market. The
// market row is read directly so a resolution is never masked by the cache.
func (s *QuoteService) Preview(ctx context.Context, marketID string, action domain.QuoteAction, outcome cpmm.Outcome, amount float64) (domain.Quote, error) {
	if err := validAmount(amount); err != nil {
		return domain.Quote{}, err
	}
	m, err := s.markets.GetByID(ctx, marketID)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("quote_service: load market %s: %w", marketID, err)
	}
	if m.Resolved() {
		return domain.Quote{}, fmt.Errorf("quote_service: preview %s: %w", marketID, domain.ErrMarketResolved)
	}
	q, err := s.PreviewPools(m.Pools, action, outcome, amount)
	if err != nil {
		return domain.Quote{}, err
	}
	q.MarketID = marketID
	return q, nil
}

// PreviewPools quotes a trade against caller-supplied pools.
func (s *QuoteService) PreviewPools(pools cpmm.Pools, action domain.QuoteAction, outcome cpmm.Outcome, amount float64) (domain.Quote, error) {
	if err := pools.Validate(); err != nil {
		return domain.Quote{}, err
	}
	if err := validAmount(amount); err != nil {
		return domain.Quote{}, err
	}

	odds := cpmm.CalculateOdds(pools)
	q := domain.Quote{
		ID:        uuid.NewString(),
		Action:    action,
		Outcome:   outcome,
		Pools:     pools,
		Odds:      odds,
		Price:     odds.Of(outcome),
		CreatedAt: s.now(),
	}
	switch action {
	case domain.QuoteBuy:
		p := cpmm.PreviewBuy(pools, outcome, amount)
		q.Buy = &p
		metrics.ObserveQuote(string(action), outcome.String(), p.PriceImpact)
	case domain.QuoteSell:
		p := cpmm.PreviewSell(pools, outcome, amount)
		q.Sell = &p
		metrics.ObserveQuote(string(action), outcome.String(), p.PriceImpact)
	default:
		return domain.Quote{}, fmt.Errorf("quote_service: unknown action %q: %w", action, domain.ErrInvalidAction)
	}
	return q, nil
}

// WarmCache refreshes odds for every open market on each tick until ctx is
// done. A failed round is logged and retried on the next tick.
func (s *QuoteService) WarmCache(ctx context.Context, interval time.Duration) error {
	if s.cache == nil || interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if n, err := s.warmOnce(ctx); err != nil {
			s.logger.WarnContext(ctx, "quote_service: cache warm failed",
				slog.String("error", err.Error()),
			)
		} else {
			s.logger.DebugContext(ctx, "quote_service: cache warmed", slog.Int("markets", n))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *QuoteService) warmOnce(ctx context.Context) (int, error) {
	const pageSize = 200
	total := 0
	for offset := 0; ; offset += pageSize {
		markets, err := s.markets.ListOpen(ctx, domain.ListOpts{Limit: pageSize, Offset: offset})
		if err != nil {
			return total, fmt.Errorf("quote_service: list open markets: %w", err)
		}
		for _, m := range markets {
			s.cacheOdds(ctx, s.price(m.ID, m.Pools))
		}
		total += len(markets)
		if len(markets) < pageSize {
			return total, nil
		}
	}
}

func validAmount(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return domain.ErrInvalidAmount
	}
	return nil
}
