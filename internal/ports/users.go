package ports

import "context"

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	SessionToken *string
}

type UserRepo interface {
	Create(ctx context.Context, username, passwordHash string) (int64, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetBySessionToken(ctx context.Context, token string) (*User, error)
	SetSessionToken(ctx context.Context, userID int64, token string) error
	ClearSessionToken(ctx context.Context, token string) error
}

// AuthService — registration and cookie-session auth. The session
// middleware uses UserBySession to supply the owner identity to the
// intake path; a missing identity is a precondition failure there.
type AuthService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (token string, err error)
	UserBySession(ctx context.Context, token string) (*User, error)
	Logout(ctx context.Context, token string) error
}
