package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           string    `bun:"id,pk" json:"id"`
	Email        string    `bun:"email,unique,notnull" json:"email"`
	Username     string    `bun:"username,unique,notnull" json:"username"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	IsAdmin      bool      `bun:"is_admin,notnull" json:"is_admin"`
	IsBanned     bool      `bun:"is_banned,notnull" json:"is_banned"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
}

// UserView is the public shape of a user. The password hash never leaves
// the service, not even to admins.
type UserView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	IsBanned bool   `json:"is_banned"`
}

func (u *User) View() UserView {
	return UserView{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
		IsBanned: u.IsBanned,
	}
}
