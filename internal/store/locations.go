package store

import (
	"context"

	"github.com/j10czar/UF-CrowdView/internal/models"
)

func (s *Store) CreateLocation(ctx context.Context, location *models.Location) error {
	_, err := s.Bun.NewInsert().Model(location).Exec(ctx)
	return mapError(err)
}

func (s *Store) GetLocationByID(ctx context.Context, id string) (*models.Location, error) {
	var location models.Location
	err := s.Bun.NewSelect().
		Model(&location).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &location, nil
}

func (s *Store) GetLocationByName(ctx context.Context, name string) (*models.Location, error) {
	var location models.Location
	err := s.Bun.NewSelect().
		Model(&location).
		Where("name = ?", name).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &location, nil
}

func (s *Store) ListLocations(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	err := s.Bun.NewSelect().
		Model(&locations).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return locations, nil
}

func (s *Store) UpdateLocation(ctx context.Context, location *models.Location) error {
	res, err := s.Bun.NewUpdate().
		Model(location).
		Column("name", "busyness_hourly", "updated_at").
		Where("id = ?", location.ID).
		Exec(ctx)
	if err != nil {
		return mapError(err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteLocation(ctx context.Context, id string) error {
	res, err := s.Bun.NewDelete().
		Model((*models.Location)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return mapError(err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}
