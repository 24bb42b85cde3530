package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/j10czar/UF-CrowdView/internal/models"
)

// Migrate creates the three tables if they do not exist yet.
func Migrate(ctx context.Context, db *bun.DB) error {
	for _, model := range []interface{}{
		(*models.User)(nil),
		(*models.Location)(nil),
		(*models.Report)(nil),
	} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table failed: %w", err)
		}
	}
	return nil
}

type seedLocation struct {
	name  string
	curve []int
}

var seedLocations = []seedLocation{
	{"Library West", []int{3, 2, 1, 1, 1, 1, 2, 3, 5, 7, 8, 9, 9, 9, 9, 8, 8, 7, 7, 6, 5, 4, 4, 3}},
	{"Marston Library", []int{2, 1, 1, 1, 1, 1, 2, 4, 6, 8, 9, 10, 10, 10, 9, 8, 8, 7, 6, 5, 4, 3, 2, 2}},
	{"Reitz Union", []int{1, 1, 1, 1, 1, 1, 2, 4, 6, 8, 9, 10, 10, 9, 7, 6, 5, 4, 3, 2, 2, 1, 1, 1}},
	{"Turlington Plaza", []int{1, 1, 1, 1, 1, 1, 2, 6, 9, 10, 10, 9, 10, 9, 8, 6, 4, 2, 1, 1, 1, 1, 1, 1}},
	{"Norman Hall", []int{1, 1, 1, 1, 1, 1, 2, 5, 7, 8, 8, 7, 7, 6, 5, 4, 3, 2, 1, 1, 1, 1, 1, 1}},
	{"Broward Dining", []int{1, 1, 1, 1, 1, 1, 1, 3, 5, 4, 3, 8, 10, 8, 4, 3, 5, 9, 10, 7, 4, 2, 1, 1}},
	{"Gator Corner", []int{1, 1, 1, 1, 1, 1, 1, 3, 5, 4, 3, 7, 9, 7, 4, 3, 5, 8, 9, 6, 3, 2, 1, 1}},
	{"Southwest Rec", []int{1, 1, 1, 1, 1, 1, 5, 6, 4, 3, 3, 4, 5, 6, 7, 8, 9, 10, 10, 9, 8, 6, 4, 2}},
}

// Seed inserts the campus locations with their baseline curves. It is a
// no-op when any location already exists.
func Seed(ctx context.Context, db *bun.DB) error {
	count, err := db.NewSelect().Model((*models.Location)(nil)).Count(ctx)
	if err != nil {
		return fmt.Errorf("count locations failed: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, seed := range seedLocations {
		location := &models.Location{
			ID:        uuid.New().String(),
			Name:      seed.name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := location.SetCurve(seed.curve); err != nil {
			return err
		}
		if _, err := db.NewInsert().Model(location).Exec(ctx); err != nil {
			return fmt.Errorf("seed insert failed for %s: %w", seed.name, err)
		}
	}
	return nil
}
