package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MaxCommentLength caps the optional free-text note on a report.
const MaxCommentLength = 280

type Report struct {
	bun.BaseModel `bun:"table:reports"`

	ID         string    `bun:"id,pk" json:"id"`
	UserID     string    `bun:"user_id,notnull" json:"user_id"`
	LocationID string    `bun:"location_id,notnull" json:"location_id"`
	Score      int       `bun:"score,notnull" json:"score"`
	Comment    string    `bun:"comment" json:"comment,omitempty"`
	PostedAt   time.Time `bun:"posted_at,notnull" json:"posted_at"`
}
