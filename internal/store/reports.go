package store

import (
	"context"
	"time"

	"github.com/j10czar/UF-CrowdView/internal/models"
)

func (s *Store) CreateReport(ctx context.Context, report *models.Report) error {
	_, err := s.Bun.NewInsert().Model(report).Exec(ctx)
	return mapError(err)
}

func (s *Store) GetReportByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	err := s.Bun.NewSelect().
		Model(&report).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &report, nil
}

func (s *Store) ListReports(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := s.Bun.NewSelect().
		Model(&reports).
		Order("posted_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return reports, nil
}

// ListRecentReportsForLocation returns the reports for a location posted at
// or after the given cutoff, feeding the live overlay.
func (s *Store) ListRecentReportsForLocation(ctx context.Context, locationID string, since time.Time) ([]models.Report, error) {
	var reports []models.Report
	err := s.Bun.NewSelect().
		Model(&reports).
		Where("location_id = ?", locationID).
		Where("posted_at >= ?", since).
		Order("posted_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return reports, nil
}

func (s *Store) DeleteReport(ctx context.Context, id string) error {
	res, err := s.Bun.NewDelete().
		Model((*models.Report)(nil)).
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
