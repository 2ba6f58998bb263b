package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
	"github.com/alanyoungcy/cpmmquote/internal/domain"
)

// QuoteService defines the methods that the quote handler requires from the
// service layer. It is declared locally so the handler package does not depend
// on the concrete service implementation.
type QuoteService interface {
	Odds(ctx context.Context, marketID string) (domain.MarketOdds, error)
	Preview(ctx context.Context, marketID string, action domain.QuoteAction, outcome cpmm.Outcome, amount float64) (domain.Quote, error)
	PreviewPools(pools cpmm.Pools, action domain.QuoteAction, outcome cpmm.Outcome, amount float64) (domain.Quote, error)
}

// QuoteHandler serves CPMM odds and trade previews.
type QuoteHandler struct {
	quotes QuoteService
	logger *slog.Logger
}

// NewQuoteHandler creates a QuoteHandler with the given service and logger.
func NewQuoteHandler(quotes QuoteService, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, logger: logger}
}

type quoteRequest struct {
	Action  string        `json:"action"`
	Outcome *cpmm.Outcome `json:"outcome"`
	Amount  float64       `json:"amount"`
}

type poolsQuoteRequest struct {
	Pools cpmm.Pools `json:"pools"`
	quoteRequest
}

func (q quoteRequest) parse() (domain.QuoteAction, cpmm.Outcome, error) {
	action, err := domain.ParseQuoteAction(strings.ToLower(strings.TrimSpace(q.Action)))
	if err != nil {
		return "", 0, err
	}
	outcome, err := requireOutcome(q.Outcome)
	if err != nil {
		return "", 0, err
	}
	return action, outcome, nil
}

// GetOdds returns the current pools and implied probabilities of a market.
// GET /api/markets/{id}/odds
func (h *QuoteHandler) GetOdds(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing market id")
		return
	}

	odds, err := h.quotes.Odds(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to load odds", slog.String("market_id", id))
		return
	}
	writeJSON(w, http.StatusOK, odds)
}

// QuoteMarket previews a trade against a stored market's pools.
// POST /api/markets/{id}/quote
func (h *QuoteHandler) QuoteMarket(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing market id")
		return
	}

	var req quoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	action, outcome, err := req.parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := h.quotes.Preview(r.Context(), id, action, outcome, req.Amount)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to quote market", slog.String("market_id", id))
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// QuotePools previews a trade against pools supplied in the request body.
// POST /api/quote
func (h *QuoteHandler) QuotePools(w http.ResponseWriter, r *http.Request) {
	var req poolsQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	action, outcome, err := req.parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := h.quotes.PreviewPools(req.Pools, action, outcome, req.Amount)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to quote pools")
		return
	}
	writeJSON(w, http.StatusOK, q)
}
