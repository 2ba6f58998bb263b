package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/cpmmquote/internal/server"
	"github.com/alanyoungcy/cpmmquote/internal/server/handler"
	"github.com/alanyoungcy/cpmmquote/internal/service"
)

const shutdownTimeout = 10 * time.Second

// ServerMode serves the HTTP API and keeps the odds cache warm until ctx is
// cancelled.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode")

	quotes := service.NewQuoteService(deps.MarketStore, deps.OddsCache, a.logger)
	books := service.NewBookService(deps.MarketStore, deps.OrderBookStore, deps.BookCache, a.cfg.Quote.BookDepth, a.logger)

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
	}, server.Handlers{
		Health: handler.NewHealthHandler(deps.Health, a.logger),
		Quotes: handler.NewQuoteHandler(quotes, a.logger),
		Books:  handler.NewOrderBookHandler(books, a.logger),
	}, a.logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	g.Go(func() error {
		err := quotes.WarmCache(ctx, a.cfg.Quote.WarmInterval.Duration)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	return g.Wait()
}

// ReplayMode estimates market orders over every archived snapshot once and
// returns.
func (a *App) ReplayMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting replay mode",
		slog.String("prefix", a.cfg.S3.SnapshotPrefix),
		slog.Float64("quantity", a.cfg.Quote.ReplayQuantity),
	)

	for name, dep := range deps.Health {
		if err := dep.Ping(ctx); err != nil {
			return fmt.Errorf("replay mode: %s unreachable: %w", name, err)
		}
	}

	r := service.NewReplayer(deps.BlobReader, a.cfg.S3.SnapshotPrefix,
		a.cfg.Quote.ReplayQuantity, a.cfg.Quote.ReplayConcurrency, a.logger)

	sum, err := r.Run(ctx)
	if err != nil {
		return fmt.Errorf("replay mode: %w", err)
	}

	feasible := 0
	for _, est := range sum.Estimates {
		if est.Estimate.Feasible {
			feasible++
		}
	}
	a.logger.InfoContext(ctx, "replay complete",
		slog.Int("snapshots", sum.Snapshots),
		slog.Int("skipped", sum.Skipped),
		slog.Int("estimates", len(sum.Estimates)),
		slog.Int("feasible", feasible),
	)
	return nil
}
