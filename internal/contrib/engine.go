// Package contrib computes contribution statistics: it fetches a remote
// calendar, normalizes it, derives totals and streaks, and caches the result.
package contrib

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/ashureev/folio/internal/domain"
)

var tracer = otel.Tracer("github.com/ashureev/folio/internal/contrib")

// DefaultTTL is how long a cached summary is served without refetching.
const DefaultTTL = 24 * time.Hour

// Options configures an Engine.
type Options struct {
	TTL time.Duration
	// Now is the clock used for freshness and for "today". Defaults to time.Now.
	Now func() time.Time
}

// Engine serves stats per subject from cache or upstream.
type Engine struct {
	fetcher Fetcher
	cache   Cache
	ttl     time.Duration
	now     func() time.Time

	flight singleflight.Group
	// writeMu serializes cache read-modify-write cycles.
	writeMu sync.Mutex
}

// NewEngine creates an engine.
func NewEngine(fetcher Fetcher, cache Cache, opts Options) *Engine {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{fetcher: fetcher, cache: cache, ttl: opts.TTL, now: opts.Now}
}

// Get returns stats for username, from cache when the entry is younger than
// the TTL and was computed for the same username, otherwise from upstream.
func (e *Engine) Get(ctx context.Context, username string) (domain.ContributionStats, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.ContributionStats{}, errNoUsername
	}

	if entry, ok := e.lookup(ctx, username); ok && e.isFresh(entry, username) {
		slog.Debug("Contribution stats served from cache", "username", username)
		return entry.Data, nil
	}
	return e.load(ctx, username)
}

// Refresh bypasses the cache and refetches unconditionally.
func (e *Engine) Refresh(ctx context.Context, username string) (domain.ContributionStats, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.ContributionStats{}, errNoUsername
	}
	return e.load(ctx, username)
}

// Age reports how old the cached entry for username is. ok is false when
// there is no usable entry.
func (e *Engine) Age(ctx context.Context, username string) (age time.Duration, ok bool) {
	entry, ok := e.lookup(ctx, username)
	if !ok || entry.CachedUsername != username {
		return 0, false
	}
	return e.now().Sub(time.UnixMilli(entry.Timestamp)), true
}

// TTL returns the freshness window.
func (e *Engine) TTL() time.Duration {
	return e.ttl
}

func (e *Engine) lookup(ctx context.Context, username string) (domain.StatsCacheEntry, bool) {
	entry, ok, err := e.cache.Get(ctx, CacheKey(username))
	if err != nil {
		slog.Warn("Error reading contribution stats cache", "username", username, "error", err)
		return domain.StatsCacheEntry{}, false
	}
	return entry, ok
}

func (e *Engine) isFresh(entry domain.StatsCacheEntry, username string) bool {
	if entry.CachedUsername != username {
		return false
	}
	age := e.now().Sub(time.UnixMilli(entry.Timestamp))
	return age >= 0 && age < e.ttl
}

// load runs at most one fetch per username at a time. The shared fetch is
// detached from any single caller; a caller that gives up gets ctx.Err().
func (e *Engine) load(ctx context.Context, username string) (domain.ContributionStats, error) {
	ch := e.flight.DoChan(username, func() (any, error) {
		return e.fetchAndStore(context.WithoutCancel(ctx), username)
	})

	select {
	case <-ctx.Done():
		return domain.ContributionStats{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.ContributionStats{}, res.Err
		}
		return res.Val.(domain.ContributionStats), nil
	}
}

func (e *Engine) fetchAndStore(ctx context.Context, username string) (domain.ContributionStats, error) {
	ctx, span := tracer.Start(ctx, "contrib.fetch", trace.WithAttributes(attribute.String("contrib.username", username)))
	defer span.End()

	started := e.now()
	payload, err := e.fetcher.Fetch(ctx, username)
	if err != nil {
		var upErr *UpstreamError
		if !errors.As(err, &upErr) {
			err = &UpstreamError{Username: username, Err: err}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		slog.Error("Error fetching contribution stats", "username", username, "error", err)
		return domain.ContributionStats{}, err
	}

	now := e.now()
	stats, err := Normalize(payload, now)
	if err != nil {
		upErr := &UpstreamError{Username: username, Err: err}
		span.RecordError(upErr)
		span.SetStatus(codes.Error, "normalize failed")
		slog.Error("Error normalizing contribution stats", "username", username, "error", err)
		return domain.ContributionStats{}, upErr
	}
	span.SetAttributes(
		attribute.Int("contrib.total", stats.TotalContributions),
		attribute.Int("contrib.days", len(stats.Series)),
	)

	slog.Info("Contribution stats computed",
		"username", username,
		"total", stats.TotalContributions,
		"current_streak", stats.CurrentStreak,
		"longest_streak", stats.LongestStreak,
		"duration", now.Sub(started),
	)

	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	entry := domain.StatsCacheEntry{
		Timestamp:      now.UnixMilli(),
		Data:           stats,
		CachedUsername: username,
	}
	if err := e.cache.Set(ctx, CacheKey(username), entry); err != nil {
		slog.Warn("Error caching contribution stats", "username", username, "error", err)
	}
	return stats, nil
}
