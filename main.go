// go_viral: YouTube Shorts heat radar.
//
// Ranks recent Shorts for a keyword by views per hour. Serves a web dashboard
// (HTTP_PORT) and the same pipeline as MCP tools (MCP_PORT): shorts_radar,
// shorts_insight, watchlist_add, watchlist_list, watchlist_remove.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_viral/internal/dashboard"
	"github.com/anatolykoptev/go_viral/internal/engine"
	"github.com/anatolykoptev/go_viral/internal/engine/radar"
	"github.com/anatolykoptev/go_viral/internal/engine/sources"
	"github.com/anatolykoptev/go_viral/internal/engine/watchlist"
	"github.com/anatolykoptev/go_viral/internal/radarserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version  = "dev"
	mcpPort  = env.Str("MCP_PORT", "8891")
	httpPort = env.Str("HTTP_PORT", "8892")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initEngine()

	cache := engine.NewTieredCache(engine.CacheOptions{
		TTL:             engine.Cfg.CacheTTL,
		MaxEntries:      engine.Cfg.CacheMaxEntries,
		CleanupInterval: engine.Cfg.CacheCleanupInterval,
		RedisURL:        env.Str("REDIS_URL", ""),
	})
	defer cache.Close()
	engine.SetCacheStats(cache.Stats)
	go cache.RunCleanup(ctx)

	ranker := radar.New(sources.NewYouTubeClientFromConfig(), radar.WithCache(cache))

	store := openWatchlist(ctx)
	if store != nil {
		defer store.Close()
		watchlist.SetStore(store)
	}

	slog.Info("starting go_viral",
		slog.String("mcp_port", mcpPort),
		slog.String("http_port", httpPort),
		slog.Bool("server_key", engine.Cfg.YouTubeAPIKey != ""),
		slog.Int64("min_views", ranker.MinViews()),
	)

	dash := dashboard.New(dashboard.Config{
		Ranker:       ranker,
		Watchlist:    store,
		LLM:          engine.Cfg.LLM,
		HasServerKey: engine.Cfg.YouTubeAPIKey != "",
		DefaultLang:  engine.Cfg.DefaultLang,
		NoteTTL:      env.Duration("NOTE_TTL", engine.Cfg.CacheTTL),
		MaxSessions:  env.Int("MAX_SESSIONS", 0),
	})
	go func() {
		if err := dash.Run(ctx, ":"+httpPort); err != nil {
			slog.Error("dashboard failed", slog.Any("error", err))
		}
	}()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_viral",
		Version: version,
	}, nil)

	radarserver.RegisterTools(server, ranker)
	slog.Info("tools registered", slog.Int("count", 5))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_viral",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	fetchTimeout := env.Duration("FETCH_TIMEOUT", 15*time.Second)
	c := engine.Config{
		YouTubeAPIBase:       env.Str("YOUTUBE_API_BASE", engine.DefaultYouTubeAPIBase),
		YouTubeAPIKey:        env.Str("YOUTUBE_API_KEY", ""),
		MaxResults:           env.Int("MAX_RESULTS", engine.DefaultMaxResults),
		MinViews:             int64(env.Int("MIN_VIEWS", engine.DefaultMinViews)),
		CacheTTL:             env.Duration("CACHE_TTL", engine.DefaultCacheTTL),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		QuotaRPS:             env.Float("QUOTA_RPS", 5),
		QuotaBurst:           env.Int("QUOTA_BURST", 5),
		FetchTimeout:         fetchTimeout,
		DefaultLang:          env.Str("DEFAULT_LANG", "en"),
		HTTPClient: &http.Client{
			Timeout: fetchTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	if key := env.Str("LLM_API_KEY", ""); key != "" {
		client := llm.NewClient(
			env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
			key,
			env.Str("LLM_MODEL", "gemini-2.5-flash"),
			llm.WithFallbackKeys(env.List("LLM_API_KEY_FALLBACKS", "")),
			llm.WithMaxTokens(env.Int("LLM_MAX_TOKENS", 512)),
			llm.WithTemperature(env.Float("LLM_TEMPERATURE", 0.4)),
			llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		)
		c.LLM = func(ctx context.Context, prompt string) (string, error) {
			return client.Complete(ctx, "", prompt)
		}
		slog.Info("insight llm enabled")
	}

	engine.Init(c)
}

// openWatchlist prefers Postgres when DATABASE_URL is set and falls back to SQLite.
// A nil store disables the watchlist.
func openWatchlist(ctx context.Context) watchlist.Store {
	if url := env.Str("DATABASE_URL", ""); url != "" {
		pg, err := watchlist.ConnectPostgres(ctx, url)
		if err == nil {
			return pg
		}
		slog.Warn("watchlist: postgres init failed, falling back to sqlite", slog.Any("error", err))
	}

	path := env.Str("WATCHLIST_DB", watchlist.DefaultSQLitePath())
	db, err := watchlist.OpenSQLite(path)
	if err != nil {
		slog.Warn("watchlist: sqlite init failed, watchlist disabled", slog.Any("error", err))
		return nil
	}
	slog.Info("watchlist: sqlite opened", slog.String("path", path))
	return db
}
