package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/controlefin/contas/internal/contas/domain"
	"github.com/controlefin/contas/internal/contas/store"
)

// TokenIssuer mints a signed token at login. Nil when the deployment runs in
// payload identity mode, where login returns only the user snapshot.
type TokenIssuer interface {
	Issue(userID int64, ttl time.Duration) (string, error)
}

// LoginService authenticates users and exposes the development-only listing.
type LoginService struct {
	store    store.Store
	creds    Credentials
	tokens   TokenIssuer
	tokenTTL time.Duration
	logger   *slog.Logger
}

func NewLoginService(st store.Store, creds Credentials, tokens TokenIssuer, tokenTTL time.Duration, logger *slog.Logger) *LoginService {
	return &LoginService{
		store:    st,
		creds:    creds,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Login checks the credentials and stamps the last login time. An unknown
// email and a wrong password fail identically. The returned token is empty
// unless a TokenIssuer is configured.
func (s *LoginService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = normalizeEmail(email)
	if !validEmail(email) || password == "" {
		return domain.User{}, "", ErrInvalidInput
	}

	user, err := s.store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", fmt.Errorf("load user: %w", err)
	}

	if err := s.creds.Compare(user.Password, password); err != nil {
		return domain.User{}, "", err
	}

	if !user.Active() {
		return domain.User{}, "", ErrUserInactive
	}

	now := time.Now().UTC()
	if err := s.store.Users().UpdateLastLogin(ctx, user.ID, now); err != nil {
		return domain.User{}, "", fmt.Errorf("stamp last login: %w", err)
	}
	user.LastLogin = &now

	var token string
	if s.tokens != nil {
		token, err = s.tokens.Issue(user.ID, s.tokenTTL)
		if err != nil {
			return domain.User{}, "", fmt.Errorf("issue token: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID))
	return user, token, nil
}

// ListUsers returns every account. Development helper behind the users
// listing route; not for production exposure.
func (s *LoginService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.store.Users().ListUsers(ctx)
}
