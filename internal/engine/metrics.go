package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	RankRequests      atomic.Int64
	YouTubeSearches   atomic.Int64
	YouTubeDetails    atomic.Int64
	UpstreamErrors    atomic.Int64
	MissingInput      atomic.Int64
	EmptyResults      atomic.Int64
	FilteredVideos    atomic.Int64
	WatchlistWrites   atomic.Int64
	InsightLLMCalls   atomic.Int64
	InsightLLMErrors  atomic.Int64
	DashboardSearches atomic.Int64
}

var cacheStats atomic.Pointer[func() (int64, int64)]

// SetCacheStats registers the hit/miss source reported by GetMetrics.
func SetCacheStats(fn func() (hits, misses int64)) {
	cacheStats.Store(&fn)
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	var hits, misses int64
	if fn := cacheStats.Load(); fn != nil {
		hits, misses = (*fn)()
	}
	return map[string]int64{
		"rank_requests":      metrics.RankRequests.Load(),
		"youtube_searches":   metrics.YouTubeSearches.Load(),
		"youtube_details":    metrics.YouTubeDetails.Load(),
		"upstream_errors":    metrics.UpstreamErrors.Load(),
		"missing_input":      metrics.MissingInput.Load(),
		"empty_results":      metrics.EmptyResults.Load(),
		"filtered_videos":    metrics.FilteredVideos.Load(),
		"watchlist_writes":   metrics.WatchlistWrites.Load(),
		"insight_llm_calls":  metrics.InsightLLMCalls.Load(),
		"insight_llm_errors": metrics.InsightLLMErrors.Load(),
		"dashboard_searches": metrics.DashboardSearches.Load(),
		"cache_hits":         hits,
		"cache_misses":       misses,
	}
}

var metricKeys = []string{
	"rank_requests", "youtube_searches", "youtube_details",
	"upstream_errors", "missing_input", "empty_results", "filtered_videos",
	"watchlist_writes", "insight_llm_calls", "insight_llm_errors",
	"dashboard_searches",
	"cache_hits", "cache_misses",
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sub-packages.
func IncrRankRequests() { metrics.RankRequests.Add(1) }
func IncrYouTubeSearch() { metrics.YouTubeSearches.Add(1) }
func IncrYouTubeDetails() { metrics.YouTubeDetails.Add(1) }
func IncrUpstreamErrors() { metrics.UpstreamErrors.Add(1) }
func IncrMissingInput() { metrics.MissingInput.Add(1) }
func IncrEmptyResults() { metrics.EmptyResults.Add(1) }
func AddFilteredVideos(n int) { metrics.FilteredVideos.Add(int64(n)) }
func IncrWatchlistWrites() { metrics.WatchlistWrites.Add(1) }
func IncrInsightLLMCalls() { metrics.InsightLLMCalls.Add(1) }
func IncrInsightLLMErrors() { metrics.InsightLLMErrors.Add(1) }
func IncrDashboardSearches() { metrics.DashboardSearches.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
