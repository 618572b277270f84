package engine

import (
	"math"
	"sort"
	"time"
)

// MinAgeHours floors the age of a video so brand-new uploads do not get an unbounded score.
const MinAgeHours = 0.1

// AgeHours returns hours elapsed between publishedAt and now, clamped to MinAgeHours.
func AgeHours(publishedAt, now time.Time) float64 {
	h := now.Sub(publishedAt).Hours()
	if h < MinAgeHours {
		return MinAgeHours
	}
	return h
}

// HeatScore is views per hour, floored. Negative inputs are treated as zero views.
func HeatScore(views int64, ageHours float64) int64 {
	if views <= 0 {
		return 0
	}
	if ageHours < MinAgeHours {
		ageHours = MinAgeHours
	}
	return int64(math.Floor(float64(views) / ageHours))
}

// SortByHeat orders videos by HeatScore descending. Ties keep their input order.
func SortByHeat(videos []Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].HeatScore > videos[j].HeatScore
	})
}

// RoundHours rounds an age to one decimal place for display.
func RoundHours(h float64) float64 {
	return math.Round(h*10) / 10
}
