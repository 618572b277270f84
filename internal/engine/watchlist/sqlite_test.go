package watchlist

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/anatolykoptev/go_viral/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "watchlist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteAddList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, err := s.Add(ctx, FromVideo(engine.Video{ID: "a", Title: "First", ChannelName: "Chan", ViewCount: 10000, HeatScore: 5000}, "AI Story"))
	require.NoError(t, err)
	assert.NotZero(t, a.ID)
	assert.Equal(t, engine.ShortsURL("a"), a.URL)
	assert.False(t, a.SavedAt.IsZero())

	_, err = s.Add(ctx, Entry{VideoID: "b", Title: "Second", Channel: "Chan", Views: 700, VPH: 700})
	require.NoError(t, err)

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].VideoID)
	assert.Equal(t, "a", entries[1].VideoID)
	assert.Equal(t, "AI Story", entries[1].Keyword)
	assert.Equal(t, int64(5000), entries[1].VPH)

	limited, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Add(ctx, Entry{VideoID: "a", Title: "Old", Channel: "c", Views: 600, VPH: 600})
	require.NoError(t, err)
	second, err := s.Add(ctx, Entry{VideoID: "a", Title: "New", Channel: "c", Views: 9000, VPH: 3000, Note: "follow up"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "New", entries[0].Title)
	assert.Equal(t, int64(3000), entries[0].VPH)
	assert.Equal(t, "follow up", entries[0].Note)
}

func TestSQLiteRemove(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.Add(ctx, Entry{VideoID: "a", Title: "t", Channel: "c"})
	require.NoError(t, err)

	removed, err := s.Remove(ctx, "a")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Remove(ctx, "a")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = s.Remove(ctx, "")
	assert.ErrorIs(t, err, ErrMissingVideoID)
	_, err = s.Add(ctx, Entry{})
	assert.ErrorIs(t, err, ErrMissingVideoID)
}

func TestNormLimit(t *testing.T) {
	assert.Equal(t, 50, normLimit(0))
	assert.Equal(t, 50, normLimit(500))
	assert.Equal(t, 20, normLimit(20))
}
