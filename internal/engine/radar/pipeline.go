package radar

import (
	"context"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go_viral/internal/engine"
	"github.com/anatolykoptev/go_viral/internal/engine/sources"
	"github.com/anatolykoptev/go_viral/internal/toolutil"
)

// Platform is the part of the video platform API the ranker depends on.
type Platform interface {
	SearchShortIDs(ctx context.Context, apiKey string, q sources.SearchQuery) ([]string, error)
	VideoDetails(ctx context.Context, apiKey string, ids []string) ([]sources.VideoItem, error)
}

// Ranker runs the search → details → score → sort pipeline and memoizes results.
type Ranker struct {
	platform   Platform
	cache      engine.ResultCache
	now        func() time.Time
	minViews   int64
	maxResults int
	defaultKey string
}

// Option customizes a Ranker.
type Option func(*Ranker)

// WithCache sets the memo cache. The default never caches.
func WithCache(c engine.ResultCache) Option { return func(r *Ranker) { r.cache = c } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(r *Ranker) { r.now = now } }

// WithMinViews sets the view threshold below which videos are dropped.
func WithMinViews(n int64) Option { return func(r *Ranker) { r.minViews = n } }

// WithMaxResults sets the search cap (1..50).
func WithMaxResults(n int) Option { return func(r *Ranker) { r.maxResults = n } }

// WithDefaultKey sets the credential used when a query carries none.
func WithDefaultKey(key string) Option { return func(r *Ranker) { r.defaultKey = key } }

// New creates a Ranker with defaults taken from engine.Cfg.
func New(p Platform, opts ...Option) *Ranker {
	r := &Ranker{
		platform:   p,
		cache:      engine.NopCache{},
		now:        time.Now,
		minViews:   engine.Cfg.MinViews,
		maxResults: engine.Cfg.MaxResults,
		defaultKey: engine.Cfg.YouTubeAPIKey,
	}
	for _, o := range opts {
		o(r)
	}
	if r.maxResults <= 0 || r.maxResults > 50 {
		r.maxResults = engine.DefaultMaxResults
	}
	return r
}

// MinViews reports the configured threshold.
func (r *Ranker) MinViews() int64 { return r.minViews }

// Resolve normalizes a query and fills in the default credential.
// It fails with a KindMissingInput error before any network call.
func (r *Ranker) Resolve(q engine.RankQuery) (engine.RankQuery, error) {
	q.Keyword = engine.NormKeyword(q.Keyword)
	q.Credentials = toolutil.NormKey(q.Credentials)
	if q.Credentials == "" {
		q.Credentials = r.defaultKey
	}
	if q.Window.Hours <= 0 {
		q.Window = engine.DefaultWindow
	}
	if q.Credentials == "" {
		return q, engine.MissingInput(engine.ErrMissingCredentials)
	}
	if q.Keyword == "" {
		return q, engine.MissingInput(engine.ErrMissingKeyword)
	}
	return q, nil
}

// Rank returns the videos matching q ordered by heat score, descending.
// Identical queries within the cache TTL are served from the cache.
// Failures are always *engine.RankError; the accompanying result is empty.
func (r *Ranker) Rank(ctx context.Context, q engine.RankQuery) (engine.RankResult, error) {
	engine.IncrRankRequests()

	q, err := r.Resolve(q)
	if err != nil {
		engine.IncrMissingInput()
		return emptyResult(q, r.now()), err
	}

	key := engine.KeyFor(q)
	if cached, ok := r.cache.Get(ctx, key); ok {
		return cached, nil
	}

	var out engine.RankResult
	err = engine.TrackOperation(ctx, "rank", func(ctx context.Context) error {
		var ferr error
		out, ferr = r.fetch(ctx, q)
		return ferr
	})
	if err != nil {
		engine.IncrUpstreamErrors()
		slog.Warn("radar: upstream failure",
			slog.String("keyword", q.Keyword),
			slog.Int("window_hours", q.Window.Hours),
			slog.String("key", toolutil.MaskKey(q.Credentials)),
			slog.Any("error", err))
		return emptyResult(q, r.now()), engine.Upstream(err)
	}

	if out.Status == engine.StatusEmpty {
		engine.IncrEmptyResults()
	}
	r.cache.Set(ctx, key, out)
	slog.Info("radar: ranked",
		slog.String("keyword", q.Keyword),
		slog.Int("window_hours", q.Window.Hours),
		slog.Int("videos", len(out.Videos)))
	return out, nil
}

// Lookup finds a video in the memoized result of q without touching the network.
func (r *Ranker) Lookup(ctx context.Context, q engine.RankQuery, videoID string) (engine.Video, bool) {
	q, err := r.Resolve(q)
	if err != nil {
		return engine.Video{}, false
	}
	res, ok := r.cache.Get(ctx, engine.KeyFor(q))
	if !ok {
		return engine.Video{}, false
	}
	return res.Find(videoID)
}

func (r *Ranker) fetch(ctx context.Context, q engine.RankQuery) (engine.RankResult, error) {
	now := r.now()
	ids, err := r.platform.SearchShortIDs(ctx, q.Credentials, sources.SearchQuery{
		Keyword:        q.Keyword,
		PublishedAfter: q.Window.PublishedAfter(now),
		MaxResults:     r.maxResults,
	})
	if err != nil {
		return engine.RankResult{}, err
	}
	if len(ids) == 0 {
		return emptyResult(q, now), nil
	}

	items, err := r.platform.VideoDetails(ctx, q.Credentials, ids)
	if err != nil {
		return engine.RankResult{}, err
	}

	videos, dropped := BuildVideos(items, now, r.minViews)
	engine.AddFilteredVideos(dropped)

	out := emptyResult(q, now)
	if len(videos) > 0 {
		out.Status = engine.StatusOK
		out.Videos = videos
	}
	return out, nil
}

// BuildVideos scores items, drops those under minViews and sorts by heat.
// It returns the ranked videos and the number of dropped items.
func BuildVideos(items []sources.VideoItem, now time.Time, minViews int64) ([]engine.Video, int) {
	videos := make([]engine.Video, 0, len(items))
	dropped := 0
	for _, item := range items {
		views := item.Statistics.ViewCount
		if views < minViews {
			dropped++
			continue
		}
		age := engine.AgeHours(item.Snippet.PublishedAt, now)
		videos = append(videos, engine.Video{
			ID:          item.ID,
			Title:       item.Snippet.Title,
			ChannelName: item.Snippet.ChannelTitle,
			PublishedAt: item.Snippet.PublishedAt.UTC(),
			ViewCount:   views,
			Thumbnail:   sources.PickThumbnail(item.ID, item.Snippet.Thumbnails),
			AgeHours:    age,
			HeatScore:   engine.HeatScore(views, age),
		})
	}
	engine.SortByHeat(videos)
	return videos, dropped
}

func emptyResult(q engine.RankQuery, now time.Time) engine.RankResult {
	return engine.RankResult{
		Keyword:     q.Keyword,
		WindowHours: q.Window.Hours,
		Status:      engine.StatusEmpty,
		Videos:      []engine.Video{},
		FetchedAt:   now.UTC(),
	}
}
