package store

import (
	"context"

	"github.com/j10czar/UF-CrowdView/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.Bun.NewInsert().Model(user).Exec(ctx)
	return mapError(err)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.Bun.NewSelect().
		Model(&user).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.Bun.NewSelect().
		Model(&users).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

// UpdateUser persists the mutable user fields. Only the ban flag changes
// after signup.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := s.Bun.NewUpdate().
		Model(user).
		Column("is_banned").
		Where("id = ?", user.ID).
		Exec(ctx)
	if err != nil {
		return mapError(err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}
