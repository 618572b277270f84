// Package watchlist persists shorts saved from the detail view, together with
// the heat snapshot they had when saved.
package watchlist

import (
	"context"
	"errors"
	"time"

	"github.com/anatolykoptev/go_viral/internal/engine"
)

// Entry is one saved short.
type Entry struct {
	ID        int64     `json:"id"`
	VideoID   string    `json:"video_id"`
	Title     string    `json:"title"`
	Channel   string    `json:"channel"`
	URL       string    `json:"url"`
	Thumbnail string    `json:"thumbnail"`
	Views     int64     `json:"views"`
	VPH       int64     `json:"vph"`
	Keyword   string    `json:"keyword,omitempty"`
	Note      string    `json:"note,omitempty"`
	SavedAt   time.Time `json:"saved_at"`
}

// Store is implemented by the SQLite and Postgres backends.
type Store interface {
	// Add saves e, replacing any earlier snapshot of the same video.
	Add(ctx context.Context, e Entry) (Entry, error)
	// List returns entries, most recently saved first.
	List(ctx context.Context, limit int) ([]Entry, error)
	// Remove deletes a video; it reports whether anything was removed.
	Remove(ctx context.Context, videoID string) (bool, error)
	Close() error
}

var ErrMissingVideoID = errors.New("watchlist: video_id is required")

// FromVideo snapshots a ranked video.
func FromVideo(v engine.Video, keyword string) Entry {
	return Entry{
		VideoID:   v.ID,
		Title:     v.Title,
		Channel:   v.ChannelName,
		URL:       v.URL(),
		Thumbnail: v.Thumbnail,
		Views:     v.ViewCount,
		VPH:       v.HeatScore,
		Keyword:   keyword,
	}
}

const defaultListLimit = 50

func normLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return defaultListLimit
	}
	return limit
}

// Package-level store, set from main.go.
var store Store

// SetStore sets the package-level store (may be nil).
func SetStore(s Store) { store = s }

// GetStore returns the package-level store (may be nil).
func GetStore() Store { return store }

// --- MCP tool I/O ---

type AddInput struct {
	VideoID string `json:"video_id" jsonschema:"Video id from a shorts_radar result"`
	Keyword string `json:"keyword" jsonschema:"Keyword of that shorts_radar call"`
	Window  string `json:"window,omitempty" jsonschema:"Window of that call (default: 24h)"`
	APIKey  string `json:"api_key,omitempty" jsonschema:"API key of that call (default: server key)"`
	Note    string `json:"note,omitempty" jsonschema:"Free-form note"`
}

type ListInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max entries (default 50, max 200)"`
}

type RemoveInput struct {
	VideoID string `json:"video_id" jsonschema:"Video id to remove"`
}

type ListResult struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

type RemoveResult struct {
	VideoID string `json:"video_id"`
	Removed bool   `json:"removed"`
}
