package contrib

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/folio/internal/domain"
	"github.com/ashureev/folio/internal/store"
)

func TestKVCache_RoundTrip(t *testing.T) {
	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	c := NewKVCache(repo)
	ctx := context.Background()
	key := CacheKey("alice")

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	entry := domain.StatsCacheEntry{
		Timestamp:      1_718_000_000_000,
		CachedUsername: "alice",
		Data: domain.ContributionStats{
			TotalContributions: 3,
			CurrentStreak:      1,
			LongestStreak:      2,
			Series:             []domain.ContributionDay{{Date: "2024-06-10", Count: 3, Level: 3}},
		},
	}
	require.NoError(t, c.Set(ctx, key, entry))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry, got)

	require.NoError(t, repo.SetValue(ctx, key, "garbage"))
	_, ok, err = c.Get(ctx, key)
	assert.False(t, ok)
	var cacheErr *CacheError
	assert.ErrorAs(t, err, &cacheErr)
}

func TestCacheEntryWireFormat(t *testing.T) {
	c := NewMemoryCache()
	require.NoError(t, c.Set(context.Background(), "k", domain.StatsCacheEntry{Timestamp: 1, CachedUsername: "alice"}))

	c.mu.RLock()
	raw := c.entries["k"]
	c.mu.RUnlock()
	assert.Contains(t, raw, `"timestamp":1`)
	assert.Contains(t, raw, `"cachedUsername":"alice"`)
	assert.Contains(t, raw, `"contributionData":null`)
}
