// Package viewstate holds the per-session screen state of the dashboard:
// which screen is shown and which video, if any, is selected.
package viewstate

import (
	"errors"
	"sync"

	"github.com/anatolykoptev/go_viral/internal/engine"
)

// View is one of the two screens.
type View string

const (
	Dashboard View = "dashboard"
	Detail    View = "detail"
)

var (
	ErrNotOnDashboard = errors.New("viewstate: analyze is only available from the dashboard")
	ErrUnknownVideo   = errors.New("viewstate: video is not in the current results")
)

// Search is the last search shown on the dashboard.
type Search struct {
	Keyword string
	Window  engine.Window
	Result  engine.RankResult
}

// State is an immutable snapshot handed to renderers.
type State struct {
	View     View
	Selected *engine.Video
	Search   *Search
}

// Controller is the state machine of one session. The zero value is ready to use
// and starts on the dashboard.
type Controller struct {
	mu       sync.Mutex
	view     View
	selected *engine.Video
	search   *Search
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{View: c.viewLocked()}
	if c.selected != nil {
		v := *c.selected
		st.Selected = &v
	}
	if c.search != nil {
		s := *c.search
		st.Search = &s
	}
	return st
}

// ShowResults records a finished search. The screen stays on (or returns to) the dashboard.
func (c *Controller) ShowResults(s Search) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = &s
	c.view = Dashboard
	c.selected = nil
}

// Analyze moves Dashboard → Detail with a copy of the video id from the current results.
func (c *Controller) Analyze(videoID string) (engine.Video, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.viewLocked() != Dashboard {
		return engine.Video{}, ErrNotOnDashboard
	}
	if c.search == nil {
		return engine.Video{}, ErrUnknownVideo
	}
	v, ok := c.search.Result.Find(videoID)
	if !ok {
		return engine.Video{}, ErrUnknownVideo
	}
	c.selected = &v
	c.view = Detail
	return v, nil
}

// Back moves Detail → Dashboard and discards the selection. On the dashboard it is a no-op.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = Dashboard
	c.selected = nil
}

func (c *Controller) viewLocked() View {
	if c.view == "" {
		return Dashboard
	}
	return c.view
}
