package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

const (
	// HoursPerDay is the fixed length of a busyness curve.
	HoursPerDay = 24
	// NoData marks an hour slot no report has ever touched.
	NoData = -1
)

type Location struct {
	bun.BaseModel `bun:"table:locations"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,unique,notnull" json:"name"`
	HourlyRaw string    `bun:"busyness_hourly,notnull" json:"-"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// EmptyCurve returns a fresh 24-slot curve with every hour set to NoData.
func EmptyCurve() []int {
	curve := make([]int, HoursPerDay)
	for i := range curve {
		curve[i] = NoData
	}
	return curve
}

// Curve decodes the stored hourly busyness values. A location written
// through SetCurve always decodes to exactly 24 entries.
func (l *Location) Curve() ([]int, error) {
	var curve []int
	if err := json.Unmarshal([]byte(l.HourlyRaw), &curve); err != nil {
		return nil, fmt.Errorf("decode busyness curve for %s: %w", l.ID, err)
	}
	if len(curve) != HoursPerDay {
		return nil, fmt.Errorf("busyness curve for %s has %d slots, want %d", l.ID, len(curve), HoursPerDay)
	}
	return curve, nil
}

func (l *Location) SetCurve(curve []int) error {
	if len(curve) != HoursPerDay {
		return fmt.Errorf("busyness curve must have %d slots, got %d", HoursPerDay, len(curve))
	}
	raw, err := json.Marshal(curve)
	if err != nil {
		return fmt.Errorf("encode busyness curve: %w", err)
	}
	l.HourlyRaw = string(raw)
	return nil
}
