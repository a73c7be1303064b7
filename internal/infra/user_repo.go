package infra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/vetwriter/vetwriter/internal/ports"
)

type userRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) ports.UserRepo {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING id
	`, username, passwordHash).Scan(&id)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return 0, ports.ErrUserExists
	}
	if err != nil {
		return 0, &ports.PersistenceError{Op: "user insert", Err: err}
	}
	return id, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*ports.User, error) {
	return r.getBy(ctx, `SELECT id, username, password, session_token FROM users WHERE username = $1`, username)
}

func (r *userRepo) GetBySessionToken(ctx context.Context, token string) (*ports.User, error) {
	return r.getBy(ctx, `SELECT id, username, password, session_token FROM users WHERE session_token = $1`, token)
}

func (r *userRepo) getBy(ctx context.Context, query string, arg any) (*ports.User, error) {
	var u ports.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.SessionToken)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, &ports.PersistenceError{Op: "user get", Err: err}
	}
	return &u, nil
}

func (r *userRepo) SetSessionToken(ctx context.Context, userID int64, token string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET session_token = $1 WHERE id = $2
	`, token, userID)
	if err != nil {
		return &ports.PersistenceError{Op: "session set", Err: err}
	}
	return nil
}

func (r *userRepo) ClearSessionToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET session_token = NULL WHERE session_token = $1
	`, token)
	if err != nil {
		return &ports.PersistenceError{Op: "session clear", Err: err}
	}
	return nil
}
