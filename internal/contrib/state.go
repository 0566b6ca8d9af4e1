package contrib

import (
	"context"
	"errors"
	"sync"

	"github.com/ashureev/folio/internal/domain"
)

// Status is the phase of a load.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// State is what a widget renders: loading, ready with stats, or failed with
// an error kind. Only the fields of the current status are set.
type State struct {
	Status  Status                    `json:"status"`
	Stats   *domain.ContributionStats `json:"stats,omitempty"`
	Kind    Kind                      `json:"kind,omitempty"`
	Message string                    `json:"message,omitempty"`
}

// Loading returns the in-progress state.
func Loading() State { return State{Status: StatusLoading} }

// Ready returns a state carrying stats.
func Ready(stats domain.ContributionStats) State {
	return State{Status: StatusReady, Stats: &stats}
}

// Failed returns a state describing err.
func Failed(err error) State {
	return State{Status: StatusFailed, Kind: KindOf(err), Message: err.Error()}
}

// StateOf converts an engine result into a State.
func StateOf(stats domain.ContributionStats, err error) State {
	if err != nil {
		return Failed(err)
	}
	return Ready(stats)
}

// Source is the engine surface a Loader needs.
type Source interface {
	Get(ctx context.Context, username string) (domain.ContributionStats, error)
	Refresh(ctx context.Context, username string) (domain.ContributionStats, error)
}

// Loader holds the current State for one consumer. Each Load supersedes the
// previous one: the earlier request is canceled and its result discarded.
type Loader struct {
	src Source

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  State
	closed bool
}

// NewLoader creates a loader in the Loading state.
func NewLoader(src Source) *Loader {
	return &Loader{src: src, state: Loading()}
}

// State returns the current state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load fetches stats for username and publishes the result unless a newer
// Load or Close happened meanwhile. It returns the state it published, or
// the current state when its result was discarded.
func (l *Loader) Load(ctx context.Context, username string) State {
	return l.run(ctx, username, l.src.Get)
}

// Refresh is Load without the cache.
func (l *Loader) Refresh(ctx context.Context, username string) State {
	return l.run(ctx, username, l.src.Refresh)
}

func (l *Loader) run(ctx context.Context, username string, fn func(context.Context, string) (domain.ContributionStats, error)) State {
	l.mu.Lock()
	if l.closed {
		st := l.state
		l.mu.Unlock()
		return st
	}
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.state = Loading()
	l.mu.Unlock()

	stats, err := fn(ctx, username)
	cancel()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || gen != l.gen || errors.Is(err, context.Canceled) {
		return l.state
	}
	l.state = StateOf(stats, err)
	l.cancel = nil
	return l.state
}

// Close abandons any pending load. Later results are discarded.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
