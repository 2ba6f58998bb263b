package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
	"github.com/alanyoungcy/cpmmquote/internal/domain"
	"github.com/alanyoungcy/cpmmquote/internal/orderbook"
)

// BookService is the slice of the service layer the order-book handler uses.
type BookService interface {
	Book(ctx context.Context, marketID string, outcome cpmm.Outcome) (domain.BookSnapshot, error)
	Estimate(ctx context.Context, marketID string, outcome cpmm.Outcome, side orderbook.Side, quantity float64) (domain.MarketEstimate, error)
}

// OrderBookHandler serves order-book snapshots and market-order estimates.
type OrderBookHandler struct {
	books  BookService
	logger *slog.Logger
}

// NewOrderBookHandler creates an OrderBookHandler.
func NewOrderBookHandler(books BookService, logger *slog.Logger) *OrderBookHandler {
	return &OrderBookHandler{books: books, logger: logger}
}

type estimateRequest struct {
	Outcome  *cpmm.Outcome `json:"outcome"`
	Side     string        `json:"side"`
	Quantity float64       `json:"quantity"`
}

// GetBook returns the parsed book for one outcome.
// GET /api/markets/{id}/orderbook?outcome=yes
func (h *OrderBookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	outcome, err := outcomeParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.books.Book(r.Context(), id, outcome)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to load order book",
			slog.String("market_id", id),
			slog.String("outcome", outcome.String()),
		)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// EstimateOrder simulates a market order against the current book.
// POST /api/markets/{id}/orderbook/estimate
func (h *OrderBookHandler) EstimateOrder(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	var req estimateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	outcome, err := requireOutcome(req.Outcome)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	side, err := orderbook.ParseSide(req.Side)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	est, err := h.books.Estimate(r.Context(), id, outcome, side, req.Quantity)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to estimate order",
			slog.String("market_id", id),
		)
		return
	}
	writeJSON(w, http.StatusOK, est)
}
