package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/folio/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "folio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestVisitorRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.GetVisitor(ctx, "vis_missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	now := time.Unix(1_700_000_000, 0)
	require.NoError(t, s.UpsertVisitor(ctx, &domain.Visitor{
		VisitorID:   "vis_1",
		DisplayName: "visitor-1",
		LastSeenAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}))

	got, err = s.GetVisitor(ctx, "vis_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "visitor-1", got.DisplayName)
	assert.Equal(t, now.Unix(), got.LastSeenAt.Unix())

	later := now.Add(time.Hour)
	require.NoError(t, s.UpdateLastSeen(ctx, "vis_1", later))
	got, err = s.GetVisitor(ctx, "vis_1")
	require.NoError(t, err)
	assert.Equal(t, later.Unix(), got.LastSeenAt.Unix())
}

func TestRecentCommandsOrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for _, raw := range []string{"help", " About ", "skills", "contact"} {
		require.NoError(t, s.AppendCommand(ctx, domain.NewCommandRecord("vis_1", "tab-1", raw, now)))
	}
	require.NoError(t, s.AppendCommand(ctx, domain.NewCommandRecord("vis_2", "tab-1", "resume", now)))

	recs, err := s.RecentCommands(ctx, "vis_1", 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "about", recs[0].Normalized)
	assert.Equal(t, " About ", recs[0].Raw)
	assert.Equal(t, "skills", recs[1].Normalized)
	assert.Equal(t, "contact", recs[2].Normalized)

	n, err := s.CountCommands(ctx, "vis_1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestPruneCommands(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, s.AppendCommand(ctx, domain.NewCommandRecord("vis_1", "tab", "help", old)))
	require.NoError(t, s.AppendCommand(ctx, domain.NewCommandRecord("vis_1", "tab", "about", time.Now())))

	deleted, err := s.PruneCommands(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	recs, err := s.RecentCommands(ctx, "vis_1", 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "about", recs[0].Normalized)
}

func TestKeyValueCache(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetValue(ctx, "github_stats_cache:alice")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.SetValue(ctx, "github_stats_cache:alice", `{"timestamp":1}`))
	require.NoError(t, s.SetValue(ctx, "github_stats_cache:alice", `{"timestamp":2}`))

	v, err := s.GetValue(ctx, "github_stats_cache:alice")
	require.NoError(t, err)
	assert.Equal(t, `{"timestamp":2}`, v)

	deleted, err := s.DeleteValuesOlderThan(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	deleted, err = s.DeleteValuesOlderThan(ctx, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
