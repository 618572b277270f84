package dashboard

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anatolykoptev/go_viral/internal/engine"
	"github.com/anatolykoptev/go_viral/internal/engine/radar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteCacheExpires(t *testing.T) {
	now := testNow
	nc := newNoteCache(10 * time.Minute)
	nc.now = func() time.Time { return now }

	v := engine.Video{ID: "fast", HeatScore: 5000}
	nc.set(noteKey(v, "en"), "note")

	got, ok := nc.get(noteKey(v, "en"))
	require.True(t, ok)
	assert.Equal(t, "note", got)

	_, ok = nc.get(noteKey(v, "zh"))
	assert.False(t, ok, "notes are per language")
	v.HeatScore = 5100
	_, ok = nc.get(noteKey(v, "en"))
	assert.False(t, ok, "a new heat score needs a new note")

	now = now.Add(10 * time.Minute)
	v.HeatScore = 5000
	_, ok = nc.get(noteKey(v, "en"))
	assert.False(t, ok)
	assert.Equal(t, 0, nc.len(), "expired entries are dropped on read")
}

func TestNoteCacheSweep(t *testing.T) {
	now := testNow
	nc := newNoteCache(time.Minute)
	nc.now = func() time.Time { return now }

	nc.set("a", "1")
	now = now.Add(30 * time.Second)
	nc.set("b", "2")
	now = now.Add(45 * time.Second)
	nc.sweep()

	assert.Equal(t, 1, nc.len())
	_, ok := nc.get("b")
	assert.True(t, ok)
}

func TestDetailAINoteRefreshes(t *testing.T) {
	var calls atomic.Int32
	llm := func(context.Context, string) (string, error) {
		calls.Add(1)
		return "Loops cleanly.", nil
	}

	now := testNow
	clock := func() time.Time { return now }
	p := &fakePlatform{items: defaultItems()}
	cache := engine.NewTieredCache(engine.CacheOptions{TTL: 600 * time.Second, Now: clock})
	ranker := radar.New(p,
		radar.WithCache(cache),
		radar.WithClock(clock),
		radar.WithMinViews(500),
		radar.WithDefaultKey(""),
	)

	c := newClient(t, Config{Ranker: ranker, LLM: llm, NoteTTL: 20 * time.Minute})
	c.srv.notes.now = clock

	open := func() {
		c.do(http.MethodPost, "/search", scan("AI Story", "k"))
		w := c.do(http.MethodPost, "/analyze/fast", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "Loops cleanly.", doc(t, w).Find(".ai-note").Text())
		c.do(http.MethodPost, "/back", nil)
	}

	open()
	open()
	assert.Equal(t, int32(1), calls.Load(), "same snapshot reuses the note")

	// the ranking cache has expired and the short has aged: new VPH, new note
	now = now.Add(11 * time.Minute)
	open()
	assert.Equal(t, int32(2), calls.Load())
}
