package busyness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/j10czar/UF-CrowdView/internal/models"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(0.2))
	assert.Equal(t, 1, Clamp(-5))
	assert.Equal(t, 10, Clamp(12.7))
	assert.Equal(t, 5, Clamp(5.0))
	// Half rounds away from zero.
	assert.Equal(t, 9, Clamp(8.5))
	assert.Equal(t, 8, Clamp(8.4))
}

func TestBlendFirstReportReplacesSentinel(t *testing.T) {
	assert.Equal(t, 7, Blend(models.NoData, 7))
	assert.Equal(t, 1, Blend(models.NoData, 1))
	assert.Equal(t, 10, Blend(models.NoData, 10))
}

func TestBlendAveragesWithPriorValue(t *testing.T) {
	// old=8, score=9 -> round(8.5) = 9
	assert.Equal(t, 9, Blend(8, 9))
	assert.Equal(t, 6, Blend(3, 9))
	assert.Equal(t, 1, Blend(1, 1))
	assert.Equal(t, 10, Blend(10, 10))
}

func TestBlendChainMatchesNestedRounding(t *testing.T) {
	// Two reports a then b must yield round((round((old+a)/2)+b)/2).
	old, a, b := 3, 9, 9
	first := Blend(old, a)
	assert.Equal(t, 6, first)
	assert.Equal(t, 8, Blend(first, b))
}

func TestBlendNeverOverwritesExistingData(t *testing.T) {
	// A single report moves an existing slot at most halfway.
	for old := MinScore; old <= MaxScore; old++ {
		for score := MinScore; score <= MaxScore; score++ {
			got := Blend(old, score)
			assert.GreaterOrEqual(t, got, MinScore)
			assert.LessOrEqual(t, got, MaxScore)
			if abs(old-score) > 1 {
				assert.NotEqual(t, score, got,
					"old=%d score=%d blended straight to the new score", old, score)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestOverlayReplacesCurrentHourOnly(t *testing.T) {
	curve := make([]int, models.HoursPerDay)
	for i := range curve {
		curve[i] = 5
	}
	now := time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)

	reports := []models.Report{
		{Score: 9, PostedAt: now.Add(-10 * time.Minute)},
		{Score: 10, PostedAt: now.Add(-20 * time.Minute)},
	}

	live := Overlay(curve, reports, now)
	assert.Equal(t, 10, live[14], "mean 9.5 rounds up")
	for hour := 0; hour < models.HoursPerDay; hour++ {
		if hour != 14 {
			assert.Equal(t, 5, live[hour])
		}
	}
	// The persisted curve is untouched.
	assert.Equal(t, 5, curve[14])
}

func TestOverlayWithoutReportsCopiesCurve(t *testing.T) {
	curve := []int{models.NoData, 3, 5}
	live := Overlay(curve, nil, time.Now())
	assert.Equal(t, curve, live)

	live[0] = 9
	assert.Equal(t, models.NoData, curve[0])
}
