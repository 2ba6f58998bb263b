package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
	"github.com/alanyoungcy/cpmmquote/internal/domain"
	"github.com/alanyoungcy/cpmmquote/internal/orderbook"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeMarkets struct {
	mu       sync.Mutex
	markets  map[string]domain.Market
	getCalls int
	listErr  error
}

func newFakeMarkets(ms ...domain.Market) *fakeMarkets {
	f := &fakeMarkets{markets: map[string]domain.Market{}}
	for _, m := range ms {
		f.markets[m.ID] = m
	}
	return f
}

func (f *fakeMarkets) GetByID(_ context.Context, id string) (domain.Market, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.markets[id]
	if !ok {
		return domain.Market{}, domain.ErrNotFound
	}
	return m, nil
}

func (f *fakeMarkets) GetPools(ctx context.Context, id string) (cpmm.Pools, error) {
	f.mu.Lock()
	f.getCalls++
	f.mu.Unlock()
	m, err := f.GetByID(ctx, id)
	return m.Pools, err
}

func (f *fakeMarkets) ListOpen(_ context.Context, opts domain.ListOpts) ([]domain.Market, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Market
	for _, m := range f.markets {
		if !m.Resolved() {
			out = append(out, m)
		}
	}
	if opts.Offset >= len(out) {
		return nil, nil
	}
	out = out[opts.Offset:]
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

type fakeOddsCache struct {
	mu      sync.Mutex
	entries map[string]domain.MarketOdds
	getErr  error
}

func newFakeOddsCache() *fakeOddsCache {
	return &fakeOddsCache{entries: map[string]domain.MarketOdds{}}
}

func (c *fakeOddsCache) SetOdds(_ context.Context, odds domain.MarketOdds) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[odds.MarketID] = odds
	return nil
}

func (c *fakeOddsCache) GetOdds(_ context.Context, id string) (domain.MarketOdds, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return domain.MarketOdds{}, c.getErr
	}
	o, ok := c.entries[id]
	if !ok {
		return domain.MarketOdds{}, domain.ErrNotFound
	}
	return o, nil
}

func (c *fakeOddsCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

func (c *fakeOddsCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type fakeBooks struct {
	rows      map[string][]orderbook.Row
	calls     int
	lastDepth int
}

func (f *fakeBooks) Levels(_ context.Context, marketID string, outcome cpmm.Outcome, depth int) ([]orderbook.Row, error) {
	f.calls++
	f.lastDepth = depth
	rows, ok := f.rows[marketID+":"+outcome.String()]
	if !ok {
		return nil, errors.New("no such book")
	}
	return rows, nil
}

type fakeBookCache struct {
	entries map[string]domain.BookSnapshot
}

func (c *fakeBookCache) SetBook(_ context.Context, snap domain.BookSnapshot) error {
	c.entries[snap.MarketID+":"+snap.Outcome.String()] = snap
	return nil
}

func (c *fakeBookCache) GetBook(_ context.Context, marketID string, outcome cpmm.Outcome) (domain.BookSnapshot, error) {
	s, ok := c.entries[marketID+":"+outcome.String()]
	if !ok {
		return domain.BookSnapshot{}, domain.ErrNotFound
	}
	return s, nil
}
