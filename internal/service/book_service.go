package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
	"github.com/alanyoungcy/cpmmquote/internal/domain"
	"github.com/alanyoungcy/cpmmquote/internal/metrics"
	"github.com/alanyoungcy/cpmmquote/internal/orderbook"
)

// BookService builds order-book snapshots and simulates market orders
// against them.
type BookService struct {
	markets domain.MarketStore
	books   domain.OrderBookStore
	cache   domain.BookCache
	depth   int
	logger  *slog.Logger
	now     func() time.Time
}

// NewBookService creates a BookService. cache may be nil. depth caps the
// number of levels loaded per side.
func NewBookService(markets domain.MarketStore, books domain.OrderBookStore, cache domain.BookCache, depth int, logger *slog.Logger) *BookService {
	return &BookService{
		markets: markets,
		books:   books,
		cache:   cache,
		depth:   depth,
		logger:  logger.With(slog.String("component", "book_service")),
		now:     time.Now,
	}
}

// Book returns the current snapshot for one outcome of a market. Market IDs
// that are not UUIDs, or that name no stored market, report ErrNotFound.
func (s *BookService) Book(ctx context.Context, marketID string, outcome cpmm.Outcome) (domain.BookSnapshot, error) {
	if _, err := uuid.Parse(marketID); err != nil {
		return domain.BookSnapshot{}, fmt.Errorf("book_service: market %q: %w", marketID, domain.ErrNotFound)
	}
	if s.cache != nil {
		snap, err := s.cache.GetBook(ctx, marketID, outcome)
		switch {
		case err == nil:
			metrics.ObserveCache("book", "hit")
			return snap, nil
		case errors.Is(err, domain.ErrNotFound):
			metrics.ObserveCache("book", "miss")
		default:
			metrics.ObserveCache("book", "error")
			s.logger.WarnContext(ctx, "book_service: cache read failed",
				slog.String("market_id", marketID),
				slog.String("outcome", outcome.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	if _, err := s.markets.GetByID(ctx, marketID); err != nil {
		return domain.BookSnapshot{}, fmt.Errorf("book_service: load market %s: %w", marketID, err)
	}
	rows, err := s.books.Levels(ctx, marketID, outcome, s.depth)
	if err != nil {
		return domain.BookSnapshot{}, fmt.Errorf("book_service: load levels %s/%s: %w", marketID, outcome, err)
	}
	snap := domain.BookSnapshot{
		MarketID:  marketID,
		Outcome:   outcome,
		Book:      orderbook.ParseRows(rows),
		Timestamp: s.now(),
	}

	if s.cache != nil {
		if err := s.cache.SetBook(ctx, snap); err != nil {
			s.logger.WarnContext(ctx, "book_service: cache write failed",
				slog.String("market_id", marketID),
				slog.String("error", err.Error()),
			)
		}
	}
	return snap, nil
}

// Estimate simulates a market order of quantity shares against the current
// book.
func (s *BookService) Estimate(ctx context.Context, marketID string, outcome cpmm.Outcome, side orderbook.Side, quantity float64) (domain.MarketEstimate, error) {
	if err := validAmount(quantity); err != nil {
		return domain.MarketEstimate{}, err
	}
	snap, err := s.Book(ctx, marketID, outcome)
	if err != nil {
		return domain.MarketEstimate{}, err
	}
	est := EstimateBook(snap.Book, side, quantity)
	est.MarketID = marketID
	est.Outcome = outcome
	metrics.ObserveEstimate(string(side), est.Estimate.Feasible)
	return est, nil
}

// EstimateBook runs a market-order simulation and derives payout figures from
// the average fill price.
func EstimateBook(book orderbook.Book, side orderbook.Side, quantity float64) domain.MarketEstimate {
	est := orderbook.EstimateMarketOrder(book, side, quantity)
	return domain.MarketEstimate{
		Side:              side,
		Quantity:          quantity,
		Estimate:          est,
		PotentialReturn:   orderbook.PotentialReturn(est.AvgPrice),
		Multiplier:        orderbook.Multiplier(est.AvgPrice),
		PotentialWinnings: orderbook.PotentialWinnings(est.FilledQuantity),
	}
}

// EstimateRecorded replays an archived book: it parses the recorded rows and
// simulates a buy and a sell of quantity shares.
func EstimateRecorded(rec domain.RecordedBook, quantity float64) []domain.MarketEstimate {
	book := orderbook.ParseRows(rec.Rows)
	out := make([]domain.MarketEstimate, 0, 2)
	for _, side := range []orderbook.Side{orderbook.Buy, orderbook.Sell} {
		est := EstimateBook(book, side, quantity)
		est.MarketID = rec.MarketID
		est.Outcome = rec.Outcome
		out = append(out, est)
	}
	return out
}
