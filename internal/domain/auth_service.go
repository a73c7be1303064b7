package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vetwriter/vetwriter/internal/ports"
)

type authService struct {
	users ports.UserRepo
}

func NewAuthService(users ports.UserRepo) ports.AuthService {
	return &authService{users: users}
}

func (s *authService) Register(ctx context.Context, username, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return errors.New("username and password required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.users.Create(ctx, username, string(hash))
	return err
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, ports.ErrNotFound) {
		return "", ports.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ports.ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := s.users.SetSessionToken(ctx, user.ID, token); err != nil {
		return "", err
	}
	return token, nil
}

func (s *authService) UserBySession(ctx context.Context, token string) (*ports.User, error) {
	if token == "" {
		return nil, ports.ErrNotFound
	}
	return s.users.GetBySessionToken(ctx, token)
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.users.ClearSessionToken(ctx, token)
}
