// Package crowd implements the venue busyness domain: report submission,
// location detail with the live overlay, and admin moderation.
package crowd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/j10czar/UF-CrowdView/internal/busyness"
	"github.com/j10czar/UF-CrowdView/internal/models"
	"github.com/j10czar/UF-CrowdView/internal/store"
)

// ErrInvalidInput covers out-of-range scores, over-long comments, and bad
// curve payloads.
var ErrInvalidInput = errors.New("invalid input")

type DBLayer interface {
	ListLocations(ctx context.Context) ([]models.Location, error)
	GetLocationByID(ctx context.Context, id string) (*models.Location, error)
	CreateLocation(ctx context.Context, location *models.Location) error
	UpdateLocation(ctx context.Context, location *models.Location) error
	DeleteLocation(ctx context.Context, id string) error

	CreateReport(ctx context.Context, report *models.Report) error
	ListReports(ctx context.Context) ([]models.Report, error)
	ListRecentReportsForLocation(ctx context.Context, locationID string, since time.Time) ([]models.Report, error)
	DeleteReport(ctx context.Context, id string) error

	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

type Service struct {
	DB DBLayer

	// Now is the clock used for overlay bucketing and timestamp fallback.
	// Tests override it.
	Now func() time.Time
}

func NewService(db DBLayer) *Service {
	return &Service{DB: db, Now: time.Now}
}

// LocationDetail is a location's persisted curve plus the read-time live
// overlay for the current hour.
type LocationDetail struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Busyness  []int     `json:"busyness_hourly"`
	Live      []int     `json:"busyness_live"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) ListLocations(ctx context.Context) ([]models.Location, error) {
	return s.DB.ListLocations(ctx)
}

// GetLocation resolves idOrName with explicit precedence: an exact id match
// wins; otherwise the first location whose lowercased name contains the
// hyphen-normalized needle ("gator-corner" matches "Gator Corner"). The
// returned detail carries the live overlay of the last hour's reports.
func (s *Service) GetLocation(ctx context.Context, idOrName string) (*LocationDetail, error) {
	location, err := s.lookupLocation(ctx, idOrName)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, location)
}

func (s *Service) lookupLocation(ctx context.Context, idOrName string) (*models.Location, error) {
	location, err := s.DB.GetLocationByID(ctx, idOrName)
	if err == nil {
		return location, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	needle := strings.ToLower(strings.ReplaceAll(idOrName, "-", " "))
	locations, err := s.DB.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	for i := range locations {
		if strings.Contains(strings.ToLower(locations[i].Name), needle) {
			return &locations[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Service) detail(ctx context.Context, location *models.Location) (*LocationDetail, error) {
	curve, err := location.Curve()
	if err != nil {
		return nil, err
	}

	now := s.Now().UTC()
	recent, err := s.DB.ListRecentReportsForLocation(ctx, location.ID, now.Add(-busyness.OverlayWindow))
	if err != nil {
		return nil, err
	}

	return &LocationDetail{
		ID:        location.ID,
		Name:      location.Name,
		Busyness:  curve,
		Live:      busyness.Overlay(curve, recent, now),
		UpdatedAt: location.UpdatedAt,
	}, nil
}

// SubmitReport persists the report and blends its score into the location's
// curve slot for the report's UTC hour. The curve write is a plain
// read-modify-write; concurrent reports for the same slot may lose an
// update.
func (s *Service) SubmitReport(ctx context.Context, user *models.User, locationID string, score int, comment, postedAt string) (*models.Report, error) {
	if !busyness.ValidScore(score) {
		return nil, fmt.Errorf("%w: score must be between %d and %d", ErrInvalidInput, busyness.MinScore, busyness.MaxScore)
	}
	if len(comment) > models.MaxCommentLength {
		return nil, fmt.Errorf("%w: comment must be at most %d characters", ErrInvalidInput, models.MaxCommentLength)
	}

	location, err := s.DB.GetLocationByID(ctx, locationID)
	if err != nil {
		return nil, err
	}

	// Client timestamps are accepted (backdating allowed); anything
	// unparseable falls back to now rather than failing the request.
	when := s.Now().UTC()
	if postedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, postedAt); err == nil {
			when = parsed.UTC()
		}
	}

	report := &models.Report{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		LocationID: location.ID,
		Score:      score,
		Comment:    comment,
		PostedAt:   when,
	}
	if err := s.DB.CreateReport(ctx, report); err != nil {
		return nil, err
	}

	curve, err := location.Curve()
	if err != nil {
		return nil, err
	}
	hour := when.Hour()
	curve[hour] = busyness.Blend(curve[hour], score)
	if err := location.SetCurve(curve); err != nil {
		return nil, err
	}
	location.UpdatedAt = s.Now().UTC()
	if err := s.DB.UpdateLocation(ctx, location); err != nil {
		return nil, err
	}

	return report, nil
}

func (s *Service) ListReports(ctx context.Context) ([]models.Report, error) {
	return s.DB.ListReports(ctx)
}

// ---------------- ADMIN ----------------

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.DB.ListUsers(ctx)
}

// ToggleBan flips a user's ban flag and returns the new value.
func (s *Service) ToggleBan(ctx context.Context, userID string) (bool, error) {
	user, err := s.DB.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	user.IsBanned = !user.IsBanned
	if err := s.DB.UpdateUser(ctx, user); err != nil {
		return false, err
	}
	return user.IsBanned, nil
}

// CreateLocation adds a location. A nil curve starts every slot at the
// no-data sentinel.
func (s *Service) CreateLocation(ctx context.Context, name string, curve []int) (*models.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if curve == nil {
		curve = models.EmptyCurve()
	}
	if err := validateCurve(curve); err != nil {
		return nil, err
	}

	now := s.Now().UTC()
	location := &models.Location{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := location.SetCurve(curve); err != nil {
		return nil, err
	}
	if err := s.DB.CreateLocation(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// UpdateLocation renames a location and/or replaces its curve. Empty name
// and nil curve each mean "keep the current value".
func (s *Service) UpdateLocation(ctx context.Context, id, name string, curve []int) (*models.Location, error) {
	location, err := s.DB.GetLocationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		location.Name = name
	}
	if curve != nil {
		if err := validateCurve(curve); err != nil {
			return nil, err
		}
		if err := location.SetCurve(curve); err != nil {
			return nil, err
		}
	}
	location.UpdatedAt = s.Now().UTC()

	if err := s.DB.UpdateLocation(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// DeleteLocation removes the location only. Its reports stay behind as
// read-only orphans.
func (s *Service) DeleteLocation(ctx context.Context, id string) error {
	return s.DB.DeleteLocation(ctx, id)
}

func (s *Service) DeleteReport(ctx context.Context, id string) error {
	return s.DB.DeleteReport(ctx, id)
}

func validateCurve(curve []int) error {
	if len(curve) != models.HoursPerDay {
		return fmt.Errorf("%w: busyness curve must have %d entries", ErrInvalidInput, models.HoursPerDay)
	}
	for i, v := range curve {
		if v != models.NoData && !busyness.ValidScore(v) {
			return fmt.Errorf("%w: curve entry %d out of range", ErrInvalidInput, i)
		}
	}
	return nil
}
