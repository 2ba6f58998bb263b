package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/cpmmquote/internal/domain"
)

// ReplaySummary counts what a replay run processed.
type ReplaySummary struct {
	Snapshots int
	Skipped   int
	Estimates []domain.MarketEstimate
}

// Replayer re-runs market-order estimates over order-book snapshots archived
// in object storage.
type Replayer struct {
	blobs       domain.BlobReader
	prefix      string
	quantity    float64
	concurrency int
	logger      *slog.Logger
}

// NewReplayer creates a Replayer reading JSON snapshots under prefix.
func NewReplayer(blobs domain.BlobReader, prefix string, quantity float64, concurrency int, logger *slog.Logger) *Replayer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Replayer{
		blobs:       blobs,
		prefix:      prefix,
		quantity:    quantity,
		concurrency: concurrency,
		logger:      logger.With(slog.String("component", "replayer")),
	}
}

// Run lists every snapshot under the prefix and estimates a buy and a sell
// against each. Undecodable snapshots are logged and skipped; a failed
// download aborts the run. Estimates are returned in snapshot listing order.
func (r *Replayer) Run(ctx context.Context) (ReplaySummary, error) {
	if err := validAmount(r.quantity); err != nil {
		return ReplaySummary{}, err
	}

	blobs, err := r.blobs.List(ctx, r.prefix)
	if err != nil {
		return ReplaySummary{}, fmt.Errorf("replayer: list %s: %w", r.prefix, err)
	}

	var keys []string
	for _, b := range blobs {
		if strings.HasSuffix(b.Path, ".json") {
			keys = append(keys, b.Path)
		}
	}

	results := make([][]domain.MarketEstimate, len(keys))
	var (
		mu      sync.Mutex
		skipped int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, key := range keys {
		g.Go(func() error {
			rec, err := r.load(gctx, key)
			if err != nil {
				return err
			}
			if rec == nil {
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}
			results[i] = EstimateRecorded(*rec, r.quantity)
			for _, est := range results[i] {
				r.logger.InfoContext(gctx, "replay estimate",
					slog.String("snapshot", key),
					slog.String("market_id", est.MarketID),
					slog.String("outcome", est.Outcome.String()),
					slog.String("side", string(est.Side)),
					slog.Bool("feasible", est.Estimate.Feasible),
					slog.Float64("avg_price", est.Estimate.AvgPrice),
					slog.Float64("total_cost", est.Estimate.TotalCost),
					slog.Float64("filled", est.Estimate.FilledQuantity),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ReplaySummary{}, err
	}

	sum := ReplaySummary{Snapshots: len(keys), Skipped: skipped}
	for _, ests := range results {
		sum.Estimates = append(sum.Estimates, ests...)
	}
	return sum, nil
}

// load fetches and decodes one snapshot. A nil record with a nil error means
// the snapshot was unreadable and has been logged.
func (r *Replayer) load(ctx context.Context, key string) (*domain.RecordedBook, error) {
	rc, err := r.blobs.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("replayer: get %s: %w", key, err)
	}
	defer rc.Close()

	var rec domain.RecordedBook
	if err := json.NewDecoder(rc).Decode(&rec); err != nil {
		r.logger.WarnContext(ctx, "replayer: skipping undecodable snapshot",
			slog.String("snapshot", key),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}
	return &rec, nil
}
