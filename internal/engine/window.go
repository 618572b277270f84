package engine

import (
	"strconv"
	"strings"
	"time"
)

// Window is a named recency bound.
type Window struct {
	Name  string
	Hours int
}

// Duration returns the window as a time.Duration.
func (w Window) Duration() time.Duration {
	return time.Duration(w.Hours) * time.Hour
}

// PublishedAfter is the earliest publish time eligible for the window.
func (w Window) PublishedAfter(now time.Time) time.Time {
	return now.Add(-w.Duration())
}

// Windows lists the selectable options in display order.
var Windows = []Window{
	{Name: "24h", Hours: 24},
	{Name: "48h", Hours: 48},
	{Name: "72h", Hours: 72},
	{Name: "week", Hours: 168},
	{Name: "month", Hours: 720},
}

// DefaultWindow is the initial selection.
var DefaultWindow = Windows[0]

// ParseWindow maps an option name, an alias, or an hour count ("72", "96h") to a Window.
// Unknown values and non-positive counts fall back to DefaultWindow.
func ParseWindow(s string) Window {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, w := range Windows {
		if s == w.Name {
			return w
		}
	}
	switch s {
	case "168h", "7d", "1w":
		return Windows[3]
	case "720h", "30d", "1m":
		return Windows[4]
	}
	if n, err := strconv.Atoi(strings.TrimSuffix(s, "h")); err == nil && n > 0 {
		return WindowFromHours(n)
	}
	return DefaultWindow
}

// WindowFromHours returns a window for an arbitrary positive hour count.
func WindowFromHours(h int) Window {
	for _, w := range Windows {
		if w.Hours == h {
			return w
		}
	}
	if h <= 0 {
		return DefaultWindow
	}
	return Window{Name: strconv.Itoa(h) + "h", Hours: h}
}
