package engine

import "time"

// --- Core radar types ---

// Video is one ranked short. It only lives inside a single rank call and its memoized result.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ChannelName string    `json:"channel"`
	PublishedAt time.Time `json:"published_at"`
	ViewCount   int64     `json:"views"`
	Thumbnail   string    `json:"thumbnail"`
	AgeHours    float64   `json:"age_hours"`
	HeatScore   int64     `json:"vph"`
}

// URL is the shorts deep link for the video.
func (v Video) URL() string {
	return ShortsURL(v.ID)
}

// ShortsURL builds the deep link for a short id. The id is not validated.
func ShortsURL(id string) string {
	return "https://www.youtube.com/shorts/" + id
}

// RankQuery is the effective input of one rank call.
type RankQuery struct {
	Credentials string
	Keyword     string
	Window      Window
}

// RankStatus tells callers whether a successful rank produced anything.
type RankStatus string

const (
	StatusOK    RankStatus = "ok"
	StatusEmpty RankStatus = "empty"
)

// RankResult is the ordered output of one rank call.
type RankResult struct {
	Keyword     string     `json:"keyword"`
	WindowHours int        `json:"window_hours"`
	Status      RankStatus `json:"status"`
	Videos      []Video    `json:"videos"`
	FetchedAt   time.Time  `json:"fetched_at"`
}

// Find returns the video with the given id from the result.
func (r RankResult) Find(id string) (Video, bool) {
	for _, v := range r.Videos {
		if v.ID == id {
			return v, true
		}
	}
	return Video{}, false
}

// --- MCP tool I/O ---

type ShortsRadarInput struct {
	Keyword  string `json:"keyword" jsonschema:"Search keyword, e.g. AI Story"`
	Window   string `json:"window,omitempty" jsonschema:"Recency window: 24h (default), 48h, 72h, week, month, or an hour count such as 96h"`
	APIKey   string `json:"api_key,omitempty" jsonschema:"YouTube Data API key (default: server key)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max videos returned (default: all)"`
	Language string `json:"language,omitempty" jsonschema:"Insight language: en (default), zh"`
}

type ShortsRadarOutput struct {
	Keyword     string  `json:"keyword"`
	WindowHours int     `json:"window_hours"`
	Total       int     `json:"total"`
	Message     string  `json:"message"`
	Videos      []Video `json:"videos"`
}

type ShortsInsightInput struct {
	Keyword  string `json:"keyword" jsonschema:"Keyword of a previous shorts_radar call"`
	Window   string `json:"window,omitempty" jsonschema:"Window of that call (default: 24h)"`
	APIKey   string `json:"api_key,omitempty" jsonschema:"API key of that call (default: server key)"`
	VideoID  string `json:"video_id" jsonschema:"Video id from the shorts_radar output"`
	Language string `json:"language,omitempty" jsonschema:"en (default) or zh"`
}

type ShortsInsightOutput struct {
	Video   Video    `json:"video"`
	Tier    string   `json:"tier"`
	Summary string   `json:"summary"`
	Points  []string `json:"points"`
	AINote  string   `json:"ai_note,omitempty"`
}
