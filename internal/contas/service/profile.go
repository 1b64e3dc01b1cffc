package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/controlefin/contas/internal/contas/domain"
	"github.com/controlefin/contas/internal/contas/store"
)

// ProfileService mutates the authenticated user's own account fields. Every
// method receives the snapshot the session middleware already loaded, so no
// operation re-reads the account it is acting on.
type ProfileService struct {
	store  store.Store
	creds  Credentials
	logger *slog.Logger
}

func NewProfileService(st store.Store, creds Credentials, logger *slog.Logger) *ProfileService {
	return &ProfileService{store: st, creds: creds, logger: logger}
}

// UpdateName sets the display name. Leading and trailing whitespace is
// discarded before the length check.
func (s *ProfileService) UpdateName(ctx context.Context, user domain.User, name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return ErrInvalidInput
	}

	if err := s.store.Users().UpdateName(ctx, user.ID, name); err != nil {
		return fmt.Errorf("update name: %w", err)
	}

	s.logger.InfoContext(ctx, "name updated", slog.Int64("user_id", user.ID))
	return nil
}

// ValidatePassword checks the current password without changing anything,
// backing the confirmation step the frontend shows before a password change.
func (s *ProfileService) ValidatePassword(ctx context.Context, user domain.User, current string) error {
	if current == "" {
		return ErrInvalidInput
	}
	return s.creds.Compare(user.Password, current)
}

// UpdatePassword replaces the credential after re-checking the current one.
// The new password must satisfy policy and differ from the current password.
func (s *ProfileService) UpdatePassword(ctx context.Context, user domain.User, current, next string) error {
	if current == "" {
		return ErrInvalidInput
	}
	if err := checkPasswordPolicy(next); err != nil {
		return err
	}

	if err := s.creds.Compare(user.Password, current); err != nil {
		return err
	}
	if next == current {
		return ErrSamePassword
	}

	encoded, err := s.creds.Encode(next)
	if err != nil {
		return fmt.Errorf("encode password: %w", err)
	}
	if err := s.store.Users().UpdatePassword(ctx, user.ID, encoded); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.InfoContext(ctx, "password updated", slog.Int64("user_id", user.ID))
	return nil
}
