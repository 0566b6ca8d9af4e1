// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ashureev/folio/internal/domain"
)

// ErrNotFound is returned when a keyed value does not exist.
var ErrNotFound = errors.New("not found")

// Repository defines the interface for persisting visitors, terminal history
// and cached values.
type Repository interface {
	// GetVisitor retrieves a visitor by ID. Returns nil, nil when absent.
	GetVisitor(ctx context.Context, visitorID string) (*domain.Visitor, error)

	// UpsertVisitor creates or updates a visitor record.
	UpsertVisitor(ctx context.Context, visitor *domain.Visitor) error

	// UpdateLastSeen updates the last_seen_at timestamp for a visitor.
	UpdateLastSeen(ctx context.Context, visitorID string, lastSeen time.Time) error

	// AppendCommand records a submitted terminal line.
	AppendCommand(ctx context.Context, record domain.CommandRecord) error

	// RecentCommands returns up to limit normalized commands, oldest first.
	RecentCommands(ctx context.Context, visitorID string, limit int) ([]domain.CommandRecord, error)

	// CountCommands returns how many lines a visitor has submitted.
	CountCommands(ctx context.Context, visitorID string) (int64, error)

	// PruneCommands deletes history older than the retention window.
	PruneCommands(ctx context.Context, retention time.Duration) (int64, error)

	// GetValue reads a cached value. Returns ErrNotFound when absent.
	GetValue(ctx context.Context, key string) (string, error)

	// SetValue stores a cached value, replacing any previous one.
	SetValue(ctx context.Context, key, value string) error

	// DeleteValuesOlderThan removes cached values not written within maxAge.
	DeleteValuesOlderThan(ctx context.Context, maxAge time.Duration) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
