package engine

import (
	"context"
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	YouTubeAPIBase       string
	YouTubeAPIKey        string // server default, used when the caller supplies none
	MaxResults           int    // search cap, 1..50
	MinViews             int64  // items below this are dropped
	CacheTTL             time.Duration
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	QuotaRPS             float64
	QuotaBurst           int
	FetchTimeout         time.Duration
	DefaultLang          string
	HTTPClient           *http.Client
	LLM                  CompleteFunc // nil = insight stays template-only
}

// CompleteFunc sends a single prompt to an LLM and returns the raw answer.
type CompleteFunc func(ctx context.Context, prompt string) (string, error)

// Defaults used when a field is left zero.
const (
	DefaultYouTubeAPIBase = "https://www.googleapis.com/youtube/v3"
	DefaultMaxResults     = 50
	DefaultMinViews       = 500
	DefaultCacheTTL       = 600 * time.Second
)

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources, radar, watchlist).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c.withDefaults()
	Cfg = &cfg
}

func (c Config) withDefaults() Config {
	if c.YouTubeAPIBase == "" {
		c.YouTubeAPIBase = DefaultYouTubeAPIBase
	}
	if c.MaxResults <= 0 || c.MaxResults > 50 {
		c.MaxResults = DefaultMaxResults
	}
	if c.MinViews < 0 {
		c.MinViews = DefaultMinViews
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.DefaultLang == "" {
		c.DefaultLang = "en"
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.FetchTimeout}
	}
	return c
}
