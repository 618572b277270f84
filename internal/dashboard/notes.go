package dashboard

import (
	"strconv"
	"sync"
	"time"

	"github.com/anatolykoptev/go_viral/internal/engine"
)

// DefaultNoteTTL bounds how long an LLM note is reused.
const DefaultNoteTTL = engine.DefaultCacheTTL

// noteCache keeps LLM notes for a limited time. A note belongs to one heat
// snapshot of a video, so a later search with a different VPH asks again.
type noteCache struct {
	entries sync.Map // key → *noteEntry
	ttl     time.Duration
	now     func() time.Time
}

type noteEntry struct {
	note      string
	expiresAt time.Time
}

func newNoteCache(ttl time.Duration) *noteCache {
	if ttl <= 0 {
		ttl = DefaultNoteTTL
	}
	return &noteCache{ttl: ttl, now: time.Now}
}

func noteKey(v engine.Video, lang string) string {
	return v.ID + "|" + lang + "|" + strconv.FormatInt(v.HeatScore, 10)
}

func (c *noteCache) get(key string) (string, bool) {
	val, ok := c.entries.Load(key)
	if !ok {
		return "", false
	}
	e := val.(*noteEntry)
	if !c.now().Before(e.expiresAt) {
		c.entries.Delete(key)
		return "", false
	}
	return e.note, true
}

func (c *noteCache) set(key, note string) {
	c.entries.Store(key, &noteEntry{note: note, expiresAt: c.now().Add(c.ttl)})
}

// sweep drops expired notes.
func (c *noteCache) sweep() {
	now := c.now()
	c.entries.Range(func(key, val any) bool {
		if e, ok := val.(*noteEntry); ok && !now.Before(e.expiresAt) {
			c.entries.Delete(key)
		}
		return true
	})
}

func (c *noteCache) len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
