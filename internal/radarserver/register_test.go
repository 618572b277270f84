package radarserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/anatolykoptev/go_viral/internal/engine"
	"github.com/anatolykoptev/go_viral/internal/engine/radar"
	"github.com/anatolykoptev/go_viral/internal/engine/sources"
	"github.com/anatolykoptev/go_viral/internal/engine/watchlist"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type fakePlatform struct {
	searches int
	items    []sources.VideoItem
}

func (f *fakePlatform) SearchShortIDs(context.Context, string, sources.SearchQuery) ([]string, error) {
	f.searches++
	ids := make([]string, 0, len(f.items))
	for _, it := range f.items {
		ids = append(ids, it.ID)
	}
	return ids, nil
}

func (f *fakePlatform) VideoDetails(context.Context, string, []string) ([]sources.VideoItem, error) {
	return f.items, nil
}

func item(id string, views int64, age time.Duration) sources.VideoItem {
	return sources.VideoItem{
		ID: id,
		Snippet: sources.VideoSnippet{
			Title:        "Short " + id,
			ChannelTitle: "Channel " + id,
			PublishedAt:  testNow.Add(-age),
		},
		Statistics: sources.VideoStatistics{ViewCount: views},
	}
}

func newTestRanker(p *fakePlatform) *radar.Ranker {
	now := func() time.Time { return testNow }
	return radar.New(p,
		radar.WithCache(engine.NewTieredCache(engine.CacheOptions{TTL: 600 * time.Second, Now: now})),
		radar.WithClock(now),
		radar.WithMinViews(500),
		radar.WithDefaultKey("server-key"),
	)
}

func connect(t *testing.T, r Ranker) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	server := mcp.NewServer(&mcp.Implementation{Name: "go_viral", Version: "test"}, nil)
	RegisterTools(server, r)

	ct, st := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func call[T any](t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) (T, *mcp.CallToolResult) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	var out T
	if !res.IsError {
		raw, err := json.Marshal(res.StructuredContent)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return out, res
}

func TestShortsRadarTool(t *testing.T) {
	p := &fakePlatform{items: []sources.VideoItem{
		item("slow", 600, time.Hour),
		item("fast", 10000, 2*time.Hour),
		item("tiny", 10, time.Hour),
	}}
	cs := connect(t, newTestRanker(p))

	out, res := call[engine.ShortsRadarOutput](t, cs, "shorts_radar", map[string]any{"keyword": "AI Story", "window": "24h"})
	require.False(t, res.IsError)
	assert.Equal(t, "AI Story", out.Keyword)
	assert.Equal(t, 24, out.WindowHours)
	assert.Equal(t, 2, out.Total)
	require.Len(t, out.Videos, 2)
	assert.Equal(t, "fast", out.Videos[0].ID)
	assert.Equal(t, int64(5000), out.Videos[0].HeatScore)

	limited, _ := call[engine.ShortsRadarOutput](t, cs, "shorts_radar", map[string]any{"keyword": "AI Story", "limit": 1})
	assert.Len(t, limited.Videos, 1)
	assert.Equal(t, 2, limited.Total)
	assert.Equal(t, 1, p.searches, "second call is served from the cache")
}

func TestShortsRadarToolMissingKeyword(t *testing.T) {
	cs := connect(t, newTestRanker(&fakePlatform{}))
	_, res := call[engine.ShortsRadarOutput](t, cs, "shorts_radar", map[string]any{"keyword": " "})
	assert.True(t, res.IsError)
}

func TestShortsInsightTool(t *testing.T) {
	p := &fakePlatform{items: []sources.VideoItem{item("fast", 10000, 2*time.Hour)}}
	cs := connect(t, newTestRanker(p))

	out, res := call[engine.ShortsInsightOutput](t, cs, "shorts_insight", map[string]any{"keyword": "AI Story", "video_id": "fast"})
	require.False(t, res.IsError)
	assert.Equal(t, "fast", out.Video.ID)
	assert.Equal(t, radar.TierExplosive, out.Tier)
	assert.NotEmpty(t, out.Summary)
	assert.NotEmpty(t, out.Points)

	_, res = call[engine.ShortsInsightOutput](t, cs, "shorts_insight", map[string]any{"keyword": "AI Story", "video_id": "other"})
	assert.True(t, res.IsError)
	assert.Equal(t, 1, p.searches)
}

func TestWatchlistTools(t *testing.T) {
	store, err := watchlist.OpenSQLite(filepath.Join(t.TempDir(), "wl.db"))
	require.NoError(t, err)
	watchlist.SetStore(store)
	t.Cleanup(func() {
		watchlist.SetStore(nil)
		store.Close()
	})

	p := &fakePlatform{items: []sources.VideoItem{item("fast", 10000, 2*time.Hour)}}
	cs := connect(t, newTestRanker(p))

	saved, res := call[watchlist.Entry](t, cs, "watchlist_add", map[string]any{"keyword": "AI Story", "video_id": "fast", "note": "remix"})
	require.False(t, res.IsError)
	assert.Equal(t, "fast", saved.VideoID)
	assert.Equal(t, int64(5000), saved.VPH)
	assert.Equal(t, "remix", saved.Note)

	list, res := call[watchlist.ListResult](t, cs, "watchlist_list", map[string]any{})
	require.False(t, res.IsError)
	assert.Equal(t, 1, list.Total)

	removed, res := call[watchlist.RemoveResult](t, cs, "watchlist_remove", map[string]any{"video_id": "fast"})
	require.False(t, res.IsError)
	assert.True(t, removed.Removed)

	_, res = call[watchlist.Entry](t, cs, "watchlist_add", map[string]any{"keyword": "AI Story", "video_id": ""})
	assert.True(t, res.IsError)
}

func TestToolError(t *testing.T) {
	assert.Contains(t, toolError(engine.MissingInput(engine.ErrMissingCredentials)).Error(), "api_key")
	assert.Contains(t, toolError(engine.MissingInput(engine.ErrMissingKeyword)).Error(), "keyword")
	upstream := toolError(engine.Upstream(&sources.APIError{StatusCode: 403, Reason: "keyInvalid", Message: "secret detail"}))
	assert.NotContains(t, upstream.Error(), "secret detail")
}
