package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/j10czar/UF-CrowdView/internal/models"
	"github.com/j10czar/UF-CrowdView/internal/store"
)

var (
	// ErrInvalidInput covers malformed signup requests: missing fields,
	// wrong email domain, too-short username.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is returned on unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrBanned is returned when a banned user tries to log in.
	ErrBanned = errors.New("user is banned")
)

const minUsernameLength = 3

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Service struct {
	Users       UserStore
	Sessions    Sessions
	EmailDomain string
	BcryptCost  int
}

func NewService(users UserStore, sessions Sessions, emailDomain string, bcryptCost int) *Service {
	return &Service{
		Users:       users,
		Sessions:    sessions,
		EmailDomain: emailDomain,
		BcryptCost:  bcryptCost,
	}
}

// Signup registers a new user and opens a session for them. The username is
// the email's local part; the institution's domain suffix is enforced here,
// uniqueness by the store.
func (s *Service) Signup(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	if !strings.HasSuffix(email, "@"+s.EmailDomain) {
		return nil, "", fmt.Errorf("%w: email must end in @%s", ErrInvalidInput, s.EmailDomain)
	}

	username := strings.SplitN(email, "@", 2)[0]
	if len(username) < minUsernameLength {
		return nil, "", fmt.Errorf("%w: username must be at least %d characters", ErrInvalidInput, minUsernameLength)
	}

	hash, err := HashPassword(password, s.BcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      false,
		IsBanned:     false,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.Sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and opens a session. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}
	if user.IsBanned {
		return nil, "", ErrBanned
	}

	token, err := s.Sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout drops the server-side session for the token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.Sessions.Delete(ctx, token)
}

// ResolveSession turns a session token into the current user, or nil for an
// anonymous caller. Stale tokens (logged out, expired, user row gone) all
// resolve to anonymous rather than erroring.
func (s *Service) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	userID, err := s.Sessions.Get(ctx, token)
	if errors.Is(err, ErrNoSession) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user, err := s.Users.GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
