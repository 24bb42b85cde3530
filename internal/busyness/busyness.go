// Package busyness holds the math that folds crowd reports into a
// location's 24-slot hourly curve. Hours are bucketed in UTC: slot 0 is
// 00:00-00:59 UTC.
package busyness

import (
	"math"
	"time"

	"github.com/j10czar/UF-CrowdView/internal/models"
)

const (
	MinScore = 1
	MaxScore = 10

	// OverlayWindow is how far back reports count toward the live overlay.
	OverlayWindow = 60 * time.Minute
)

// Clamp rounds v half away from zero and bounds it to [MinScore, MaxScore].
func Clamp(v float64) int {
	rounded := int(math.Round(v))
	if rounded < MinScore {
		return MinScore
	}
	if rounded > MaxScore {
		return MaxScore
	}
	return rounded
}

// Blend merges a new report score into an hour slot. The first report for a
// slot replaces the sentinel outright; after that every report only moves
// the slot halfway toward its score, so no single report can overwrite
// prior data.
func Blend(old, score int) int {
	if old == models.NoData {
		return score
	}
	return Clamp(float64(old+score) / 2)
}

// ValidScore reports whether a submitted score is in range.
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

// Overlay returns a copy of curve with the slot for now's UTC hour replaced
// by the clamped mean of the given reports' scores. The reports are expected
// to already be filtered to the overlay window; with none the curve is
// returned unchanged (still copied). The result is never persisted.
func Overlay(curve []int, reports []models.Report, now time.Time) []int {
	live := make([]int, len(curve))
	copy(live, curve)

	if len(reports) == 0 {
		return live
	}

	sum := 0
	for _, report := range reports {
		sum += report.Score
	}
	hour := now.UTC().Hour()
	if hour < len(live) {
		live[hour] = Clamp(float64(sum) / float64(len(reports)))
	}
	return live
}
