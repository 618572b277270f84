package engine

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in    string
		hours int
	}{
		{"24h", 24},
		{"48h", 48},
		{" 72H ", 72},
		{"week", 168},
		{"7d", 168},
		{"month", 720},
		{"30d", 720},
		{"72", 72},
		{"96h", 96},
		{"12h", 12},
		{"168", 168},
		{"0", 24},
		{"-5h", 24},
		{"h", 24},
		{"", 24},
		{"forever", 24},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseWindow(tt.in); got.Hours != tt.hours {
				t.Errorf("ParseWindow(%q).Hours = %d, want %d", tt.in, got.Hours, tt.hours)
			}
		})
	}
}

func TestParseWindowHourCountName(t *testing.T) {
	if w := ParseWindow("96h"); w.Name != "96h" {
		t.Errorf("96h: got name %q", w.Name)
	}
	if w := ParseWindow("72"); w != Windows[2] {
		t.Errorf("72: got %+v, want the named 72h option", w)
	}
}

func TestWindowFromHours(t *testing.T) {
	if w := WindowFromHours(168); w.Name != "week" {
		t.Errorf("168h: got name %q", w.Name)
	}
	if w := WindowFromHours(6); w.Name != "6h" || w.Hours != 6 {
		t.Errorf("6h: got %+v", w)
	}
	if w := WindowFromHours(0); w != DefaultWindow {
		t.Errorf("0h: got %+v", w)
	}
}

func TestPublishedAfter(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	got := ParseWindow("48h").PublishedAfter(now)
	want := time.Date(2026, 10, 13, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("PublishedAfter = %v, want %v", got, want)
	}
}
