package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/controlefin/contas/internal/contas/domain"
	"github.com/controlefin/contas/internal/contas/ledger"
	"github.com/controlefin/contas/internal/contas/notify"
	"github.com/controlefin/contas/internal/contas/store"
)

const emailChangeKeyPrefix = "email-change:"

// EmailChangeService drives the two-step email swap for an existing account.
// The pending attempt is keyed by user id, so each account holds at most one
// outstanding change and a new request replaces the previous candidate.
type EmailChangeService struct {
	store    store.Store
	ledger   ledger.Ledger
	notifier notify.Notifier
	codeTTL  time.Duration
	logger   *slog.Logger

	newCode func() (string, error)
}

func NewEmailChangeService(st store.Store, lg ledger.Ledger, n notify.Notifier, codeTTL time.Duration, logger *slog.Logger) *EmailChangeService {
	return &EmailChangeService{
		store:    st,
		ledger:   lg,
		notifier: n,
		codeTTL:  codeTTL,
		logger:   logger,
		newCode:  newVerificationCode,
	}
}

func emailChangeKey(userID int64) string {
	return emailChangeKeyPrefix + strconv.FormatInt(userID, 10)
}

// RequestCode parks the candidate address and emails a code to it. The code
// goes to the NEW address: the change only completes if the user can read
// mail there. The acting user is the snapshot the session middleware loaded.
func (s *EmailChangeService) RequestCode(ctx context.Context, user domain.User, newEmail string) error {
	newEmail = normalizeEmail(newEmail)
	if !validEmail(newEmail) {
		return ErrInvalidInput
	}

	if normalizeEmail(user.Email) == newEmail {
		return ErrSameEmail
	}

	if other, err := s.store.Users().GetUserByEmail(ctx, newEmail); err == nil {
		if other.ID != user.ID {
			return ErrEmailTaken
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check email: %w", err)
	}

	payload, err := json.Marshal(domain.PendingEmailChange{NewEmail: newEmail})
	if err != nil {
		return fmt.Errorf("encode pending email change: %w", err)
	}

	code, err := s.newCode()
	if err != nil {
		return err
	}

	key := emailChangeKey(user.ID)
	if err := s.ledger.Put(ctx, key, payload, code, s.codeTTL); err != nil {
		return err
	}

	if err := s.notifier.SendVerificationCode(ctx, newEmail, code); err != nil {
		if delErr := s.ledger.Delete(ctx, key); delErr != nil {
			s.logger.ErrorContext(ctx, "rollback pending email change",
				slog.Int64("user_id", user.ID), slog.Any("error", delErr))
		}
		s.logger.WarnContext(ctx, "verification code delivery failed",
			slog.String("email", newEmail), slog.Any("error", err))
		return ErrDeliveryFailed
	}

	s.logger.InfoContext(ctx, "email change code sent",
		slog.Int64("user_id", user.ID), slog.String("new_email", newEmail))
	return nil
}

// Verify consumes the pending attempt and rewrites the account's email. The
// submitted address must match the one the code was sent to; a mismatched
// address is rejected before the code is even compared, leaving the attempt
// untouched.
func (s *EmailChangeService) Verify(ctx context.Context, userID int64, newEmail, code string) error {
	newEmail = normalizeEmail(newEmail)
	if !validEmail(newEmail) || code == "" {
		return ErrInvalidInput
	}

	key := emailChangeKey(userID)

	// Peek first: a wrong candidate address must not consume the entry.
	entry, err := s.ledger.Peek(ctx, key)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return ErrNoPending
		}
		return err
	}

	var pending domain.PendingEmailChange
	if err := json.Unmarshal(entry.Payload, &pending); err != nil {
		return fmt.Errorf("decode pending email change: %w", err)
	}
	if pending.NewEmail != newEmail {
		return ErrPendingMismatch
	}

	if _, err := s.ledger.Verify(ctx, key, code); err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			return ErrNoPending
		case errors.Is(err, ledger.ErrExpired):
			return ErrCodeExpired
		case errors.Is(err, ledger.ErrCodeMismatch):
			return ErrBadCode
		}
		return err
	}

	if err := s.store.Users().UpdateEmail(ctx, userID, pending.NewEmail); err != nil {
		// A registration for the same address may have been committed
		// while the change was pending.
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrEmailTaken
		}
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update email: %w", err)
	}

	s.logger.InfoContext(ctx, "email changed",
		slog.Int64("user_id", userID), slog.String("new_email", pending.NewEmail))
	return nil
}
