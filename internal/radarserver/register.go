// Package radarserver exposes the radar pipeline and the watchlist as MCP tools.
package radarserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_viral/internal/engine"
	"github.com/anatolykoptev/go_viral/internal/engine/radar"
	"github.com/anatolykoptev/go_viral/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Ranker is what the tools need from *radar.Ranker.
type Ranker interface {
	Rank(ctx context.Context, q engine.RankQuery) (engine.RankResult, error)
	Lookup(ctx context.Context, q engine.RankQuery, videoID string) (engine.Video, bool)
}

// RegisterTools registers shorts_radar, shorts_insight and the watchlist tools.
// The watchlist tools read the store set with watchlist.SetStore.
func RegisterTools(server *mcp.Server, r Ranker) {
	registerShortsRadar(server, r)
	registerShortsInsight(server, r)
	registerWatchlistAdd(server, r)
	registerWatchlistList(server)
	registerWatchlistRemove(server)
}

func registerShortsRadar(server *mcp.Server, r Ranker) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "shorts_radar",
		Description: "Find YouTube Shorts for a keyword published within a recency window (24h, 48h, 72h, week, month) and rank them by views per hour (VPH). Videos under the minimum view count are dropped. Results are cached for 10 minutes per key, keyword and window.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ShortsRadarInput) (*mcp.CallToolResult, engine.ShortsRadarOutput, error) {
		res, err := r.Rank(ctx, engine.RankQuery{
			Credentials: input.APIKey,
			Keyword:     input.Keyword,
			Window:      engine.ParseWindow(input.Window),
		})
		if err != nil {
			return nil, engine.ShortsRadarOutput{}, toolError(err)
		}
		return nil, radarOutput(res, input.Limit), nil
	})
}

func radarOutput(res engine.RankResult, limit int) engine.ShortsRadarOutput {
	videos := res.Videos[:toolutil.ClampLimit(limit, len(res.Videos))]
	out := engine.ShortsRadarOutput{
		Keyword:     res.Keyword,
		WindowHours: res.WindowHours,
		Total:       len(res.Videos),
		Videos:      videos,
	}
	if res.Status == engine.StatusEmpty {
		out.Message = "no shorts matched this keyword and window above the view threshold; try a wider window or a broader keyword"
	} else {
		out.Message = fmt.Sprintf("%d shorts ranked by views per hour", len(res.Videos))
	}
	return out
}

func registerShortsInsight(server *mcp.Server, r Ranker) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "shorts_insight",
		Description: "Explain why one short from a previous shorts_radar result is spreading: heat tier, narrative summary and follow-up points, plus an LLM note when configured. Pass the same keyword, window and api_key as the shorts_radar call.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ShortsInsightInput) (*mcp.CallToolResult, engine.ShortsInsightOutput, error) {
		if input.VideoID == "" {
			return nil, engine.ShortsInsightOutput{}, errors.New("video_id is required")
		}
		v, err := lookup(ctx, r, input.APIKey, input.Keyword, input.Window, input.VideoID)
		if err != nil {
			return nil, engine.ShortsInsightOutput{}, err
		}

		lang := toolutil.NormLang(input.Language, engine.Cfg.DefaultLang)
		in := radar.Enrich(ctx, engine.Cfg.LLM, v, radar.BuildInsight(v, lang), lang)
		return nil, engine.ShortsInsightOutput{
			Video:   v,
			Tier:    in.Tier,
			Summary: in.Summary,
			Points:  in.Points,
			AINote:  in.AINote,
		}, nil
	})
}

// lookup resolves a video from the memoized radar result, ranking once if the
// result is not cached yet.
func lookup(ctx context.Context, r Ranker, apiKey, keyword, window, videoID string) (engine.Video, error) {
	q := engine.RankQuery{Credentials: apiKey, Keyword: keyword, Window: engine.ParseWindow(window)}
	if v, ok := r.Lookup(ctx, q, videoID); ok {
		return v, nil
	}
	res, err := r.Rank(ctx, q)
	if err != nil {
		return engine.Video{}, toolError(err)
	}
	v, ok := res.Find(videoID)
	if !ok {
		return engine.Video{}, fmt.Errorf("video %s is not in the %q results for window %dh", videoID, res.Keyword, res.WindowHours)
	}
	return v, nil
}

// toolError turns a rank failure into a message an MCP client can act on.
// Upstream details stay in the server log.
func toolError(err error) error {
	switch {
	case errors.Is(err, engine.ErrMissingCredentials):
		return errors.New("api_key is required: no server key is configured")
	case errors.Is(err, engine.ErrMissingKeyword):
		return errors.New("keyword is required")
	case errors.Is(err, engine.ErrUpstream):
		return errors.New("the video platform request failed; check the API key and quota, then retry")
	}
	slog.Warn("radarserver: unexpected error", slog.Any("error", err))
	return err
}
