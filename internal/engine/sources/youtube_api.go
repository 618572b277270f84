package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go_viral/internal/engine"
	"golang.org/x/time/rate"
)

// videos.list accepts at most 50 ids per call.
const ytMaxIDsPerCall = 50

// --- YouTube Data API v3 types ---

type ytSearchResp struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type ytVideosResp struct {
	Items []VideoItem `json:"items"`
}

// VideoItem is one entry of a videos.list response (snippet + statistics parts).
type VideoItem struct {
	ID         string          `json:"id"`
	Snippet    VideoSnippet    `json:"snippet"`
	Statistics VideoStatistics `json:"statistics"`
}

type VideoSnippet struct {
	Title        string               `json:"title"`
	ChannelTitle string               `json:"channelTitle"`
	PublishedAt  time.Time            `json:"publishedAt"`
	Thumbnails   map[string]Thumbnail `json:"thumbnails"`
}

type VideoStatistics struct {
	ViewCount int64 `json:"viewCount,string"`
}

type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// SearchQuery constrains a search.list call.
type SearchQuery struct {
	Keyword        string
	PublishedAfter time.Time
	MaxResults     int
}

// APIError is a non-200 answer from the Data API, decoded from its error envelope.
type APIError struct {
	StatusCode int
	Reason     string // e.g. quotaExceeded, keyInvalid
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube data API %d (%s): %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("youtube data API %d: %s", e.StatusCode, e.Message)
}

type ytErrorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// YouTubeClient talks to the Data API v3. Every call waits on a shared limiter.
type YouTubeClient struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
}

// NewYouTubeClient creates a client. rps <= 0 disables the limiter.
func NewYouTubeClient(base string, hc *http.Client, rps float64, burst int) *YouTubeClient {
	if base == "" {
		base = engine.DefaultYouTubeAPIBase
	}
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst <= 0 {
		burst = 1
	}
	return &YouTubeClient{
		base:    strings.TrimRight(base, "/"),
		http:    hc,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// NewYouTubeClientFromConfig builds a client from engine.Cfg.
func NewYouTubeClientFromConfig() *YouTubeClient {
	c := engine.Cfg
	return NewYouTubeClient(c.YouTubeAPIBase, c.HTTPClient, c.QuotaRPS, c.QuotaBurst)
}

// SearchShortIDs runs search.list restricted to short videos ordered by views,
// returning the video ids in platform order.
func (c *YouTubeClient) SearchShortIDs(ctx context.Context, apiKey string, q SearchQuery) ([]string, error) {
	engine.IncrYouTubeSearch()

	limit := q.MaxResults
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	params := url.Values{}
	params.Set("part", "id")
	params.Set("q", q.Keyword)
	params.Set("type", "video")
	params.Set("videoDuration", "short")
	params.Set("order", "viewCount")
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("publishedAfter", q.PublishedAfter.UTC().Format(time.RFC3339))
	params.Set("key", apiKey)

	var result ytSearchResp
	if err := c.get(ctx, "/search", params, &result); err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	ids := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.VideoID == "" {
			continue
		}
		ids = append(ids, item.ID.VideoID)
	}
	slog.Debug("youtube: search done", slog.String("q", q.Keyword), slog.Int("ids", len(ids)))
	return ids, nil
}

// VideoDetails runs videos.list for snippet and statistics of the given ids.
// Up to 50 ids go out as a single request.
func (c *YouTubeClient) VideoDetails(ctx context.Context, apiKey string, ids []string) ([]VideoItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []VideoItem
	for start := 0; start < len(ids); start += ytMaxIDsPerCall {
		end := min(start+ytMaxIDsPerCall, len(ids))
		engine.IncrYouTubeDetails()

		params := url.Values{}
		params.Set("part", "snippet,statistics")
		params.Set("id", strings.Join(ids[start:end], ","))
		params.Set("key", apiKey)

		var result ytVideosResp
		if err := c.get(ctx, "/videos", params, &result); err != nil {
			return nil, fmt.Errorf("youtube videos: %w", err)
		}
		items = append(items, result.Items...)
	}
	return items, nil
}

func (c *YouTubeClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("quota guard: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", engine.UserAgentBot)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return parseAPIError(resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode youtube data API: %w", err)
	}
	return nil
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var env ytErrorEnvelope
	if json.Unmarshal(body, &env) == nil && env.Error.Message != "" {
		apiErr.Message = env.Error.Message
		if len(env.Error.Errors) > 0 {
			apiErr.Reason = env.Error.Errors[0].Reason
		}
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
