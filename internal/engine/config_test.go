package engine

import (
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	c := Config{MaxResults: 80, MinViews: -1}.withDefaults()
	if c.MaxResults != DefaultMaxResults {
		t.Errorf("MaxResults = %d", c.MaxResults)
	}
	if c.MinViews != DefaultMinViews {
		t.Errorf("MinViews = %d", c.MinViews)
	}
	if c.CacheTTL != 600*time.Second {
		t.Errorf("CacheTTL = %v", c.CacheTTL)
	}
	if c.YouTubeAPIBase != DefaultYouTubeAPIBase || c.DefaultLang != "en" || c.HTTPClient == nil {
		t.Errorf("unexpected defaults: %+v", c)
	}
}

func TestConfigKeepsExplicitValues(t *testing.T) {
	c := Config{MaxResults: 10, MinViews: 0, CacheTTL: time.Minute}.withDefaults()
	if c.MaxResults != 10 || c.MinViews != 0 || c.CacheTTL != time.Minute {
		t.Errorf("explicit values overwritten: %+v", c)
	}
}
