// Package janitor runs periodic maintenance: it prunes old terminal history
// and stale cache rows, and refreshes the site owner's stats before they expire.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/ashureev/folio/internal/domain"
	"github.com/ashureev/folio/internal/store"
)

// Stats is the engine surface used for pre-warming.
type Stats interface {
	Age(ctx context.Context, username string) (time.Duration, bool)
	Refresh(ctx context.Context, username string) (domain.ContributionStats, error)
	TTL() time.Duration
}

// Options configures a Worker.
type Options struct {
	Interval         time.Duration
	HistoryRetention time.Duration
	// WarmBefore refreshes the warm username once its entry is this close to expiry.
	WarmBefore   time.Duration
	WarmUsername string
}

// Worker sweeps on a fixed interval until its context ends.
type Worker struct {
	repo  store.Repository
	stats Stats
	opts  Options
}

// New creates a worker. stats may be nil to disable pre-warming.
func New(repo store.Repository, stats Stats, opts Options) *Worker {
	return &Worker{repo: repo, stats: stats, opts: opts}
}

// Start runs the worker in a background goroutine. The first sweep happens
// immediately.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.opts.Interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Janitor started", "interval", w.opts.Interval, "history_retention", w.opts.HistoryRetention)

		w.Sweep(ctx)
		for {
			select {
			case <-ticker.C:
				w.Sweep(ctx)
			case <-ctx.Done():
				slog.Info("Janitor shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

// Sweep performs one maintenance pass.
func (w *Worker) Sweep(ctx context.Context) {
	if w.opts.HistoryRetention > 0 {
		if deleted, err := w.repo.PruneCommands(ctx, w.opts.HistoryRetention); err != nil {
			slog.Error("Janitor failed to prune command history", "error", err)
		} else if deleted > 0 {
			slog.Info("Janitor pruned command history", "count", deleted)
		}
	}

	if w.stats == nil {
		return
	}

	if deleted, err := w.repo.DeleteValuesOlderThan(ctx, w.stats.TTL()); err != nil {
		slog.Error("Janitor failed to prune cache", "error", err)
	} else if deleted > 0 {
		slog.Info("Janitor pruned stale cache entries", "count", deleted)
	}

	w.warm(ctx)
}

func (w *Worker) warm(ctx context.Context) {
	user := w.opts.WarmUsername
	if user == "" {
		return
	}

	age, ok := w.stats.Age(ctx, user)
	if ok && age < w.stats.TTL()-w.opts.WarmBefore {
		return
	}

	slog.Info("Janitor warming contribution stats", "username", user, "cached", ok, "age", age)
	if _, err := w.stats.Refresh(ctx, user); err != nil {
		slog.Warn("Janitor failed to warm contribution stats", "username", user, "error", err)
	}
}
