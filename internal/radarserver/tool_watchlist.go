package radarserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_viral/internal/engine"
	"github.com/anatolykoptev/go_viral/internal/engine/watchlist"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var errNoStore = errors.New("watchlist is not configured")

func registerWatchlistAdd(server *mcp.Server, r Ranker) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "watchlist_add",
		Description: "Save a short from a shorts_radar result to the watchlist with its current views and VPH. Saving the same video again replaces the snapshot.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input watchlist.AddInput) (*mcp.CallToolResult, *watchlist.Entry, error) {
		store := watchlist.GetStore()
		if store == nil {
			return nil, nil, errNoStore
		}
		if input.VideoID == "" {
			return nil, nil, watchlist.ErrMissingVideoID
		}
		v, err := lookup(ctx, r, input.APIKey, input.Keyword, input.Window, input.VideoID)
		if err != nil {
			return nil, nil, err
		}
		e := watchlist.FromVideo(v, engine.NormKeyword(input.Keyword))
		e.Note = input.Note
		saved, err := store.Add(ctx, e)
		if err != nil {
			return nil, nil, err
		}
		return nil, &saved, nil
	})
}

func registerWatchlistList(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "watchlist_list",
		Description: "List saved shorts, most recently saved first.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input watchlist.ListInput) (*mcp.CallToolResult, *watchlist.ListResult, error) {
		store := watchlist.GetStore()
		if store == nil {
			return nil, nil, errNoStore
		}
		entries, err := store.List(ctx, input.Limit)
		if err != nil {
			return nil, nil, err
		}
		return nil, &watchlist.ListResult{Entries: entries, Total: len(entries)}, nil
	})
}

func registerWatchlistRemove(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "watchlist_remove",
		Description: "Remove a saved short by video id.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input watchlist.RemoveInput) (*mcp.CallToolResult, *watchlist.RemoveResult, error) {
		store := watchlist.GetStore()
		if store == nil {
			return nil, nil, errNoStore
		}
		if input.VideoID == "" {
			return nil, nil, watchlist.ErrMissingVideoID
		}
		removed, err := store.Remove(ctx, input.VideoID)
		if err != nil {
			return nil, nil, err
		}
		return nil, &watchlist.RemoveResult{VideoID: input.VideoID, Removed: removed}, nil
	})
}
