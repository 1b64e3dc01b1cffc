package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/controlefin/contas/internal/contas/domain"
	"github.com/controlefin/contas/internal/contas/ledger"
	"github.com/controlefin/contas/internal/contas/notify"
	"github.com/controlefin/contas/internal/contas/store"
)

const registerKeyPrefix = "register:"

// RegisterInput carries a registration request before verification.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	BirthDate string
	CPF       string
}

// RegistrationService drives the two-step signup: a code request that parks
// the candidate account in the pending ledger, and a verification that
// consumes the ledger entry and commits the account.
type RegistrationService struct {
	store    store.Store
	ledger   ledger.Ledger
	notifier notify.Notifier
	creds    Credentials
	codeTTL  time.Duration
	logger   *slog.Logger

	// newCode is swappable for tests.
	newCode func() (string, error)
}

func NewRegistrationService(st store.Store, lg ledger.Ledger, n notify.Notifier, creds Credentials, codeTTL time.Duration, logger *slog.Logger) *RegistrationService {
	return &RegistrationService{
		store:    st,
		ledger:   lg,
		notifier: n,
		creds:    creds,
		codeTTL:  codeTTL,
		logger:   logger,
		newCode:  newVerificationCode,
	}
}

// RequestCode validates the candidate account, checks uniqueness against
// committed users, stores the pending snapshot and emails the code. No row
// is written: until verification the account exists only in the ledger, and
// a second request for the same email silently replaces the first.
func (s *RegistrationService) RequestCode(ctx context.Context, in RegisterInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)

	// Only presence is required here. Password strength is a policy of
	// the change-password flow, not of signup, and the birth date is
	// stored as submitted.
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return ErrInvalidInput
	}
	cpf, err := normalizeCPF(in.CPF)
	if err != nil {
		return err
	}
	in.CPF = cpf

	// Email is checked before cpf so a request conflicting on both
	// reports the email conflict.
	if _, err := s.store.Users().GetUserByEmail(ctx, in.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check email: %w", err)
	}
	if in.CPF != "" {
		if _, err := s.store.Users().GetUserByCPF(ctx, in.CPF); err == nil {
			return ErrCPFTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("check cpf: %w", err)
		}
	}

	encoded, err := s.creds.Encode(in.Password)
	if err != nil {
		return fmt.Errorf("encode password: %w", err)
	}

	payload, err := json.Marshal(domain.PendingRegistration{
		Name:      in.Name,
		Email:     in.Email,
		Password:  encoded,
		BirthDate: in.BirthDate,
		CPF:       in.CPF,
	})
	if err != nil {
		return fmt.Errorf("encode pending registration: %w", err)
	}

	code, err := s.newCode()
	if err != nil {
		return err
	}

	key := registerKeyPrefix + in.Email
	if err := s.ledger.Put(ctx, key, payload, code, s.codeTTL); err != nil {
		return err
	}

	if err := s.notifier.SendVerificationCode(ctx, in.Email, code); err != nil {
		// The code never reached the user, so the attempt is rolled
		// back rather than left to dangle until expiry.
		if delErr := s.ledger.Delete(ctx, key); delErr != nil {
			s.logger.ErrorContext(ctx, "rollback pending registration",
				slog.String("email", in.Email), slog.Any("error", delErr))
		}
		s.logger.WarnContext(ctx, "verification code delivery failed",
			slog.String("email", in.Email), slog.Any("error", err))
		return ErrDeliveryFailed
	}

	s.logger.InfoContext(ctx, "registration code sent", slog.String("email", in.Email))
	return nil
}

// VerifyRegister consumes the pending attempt for email and commits the
// account. A correct code spends the attempt even if the commit then fails.
func (s *RegistrationService) VerifyRegister(ctx context.Context, email, code string) (domain.User, error) {
	email = normalizeEmail(email)
	if !validEmail(email) || code == "" {
		return domain.User{}, ErrInvalidInput
	}

	payload, err := s.ledger.Verify(ctx, registerKeyPrefix+email, code)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return domain.User{}, ErrNoPending
	case errors.Is(err, ledger.ErrExpired):
		return domain.User{}, ErrCodeExpired
	case errors.Is(err, ledger.ErrCodeMismatch):
		return domain.User{}, ErrBadCode
	case err != nil:
		return domain.User{}, err
	}

	var pending domain.PendingRegistration
	if err := json.Unmarshal(payload, &pending); err != nil {
		return domain.User{}, fmt.Errorf("decode pending registration: %w", err)
	}

	user := domain.User{
		Name:      pending.Name,
		Email:     pending.Email,
		Password:  pending.Password,
		BirthDate: pending.BirthDate,
		CPF:       pending.CPF,
		Kind:      domain.AccountStandard,
		Status:    domain.StatusActive,
	}

	var id int64
	err = s.store.WithTx(ctx, func(tx store.Tx) error {
		created, err := tx.Users().CreateUser(ctx, user)
		if err != nil {
			return err
		}
		id = created
		return nil
	})
	if err != nil {
		// Someone committed the same email or cpf while this attempt
		// was pending. The attempt is spent; registration restarts.
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, s.commitConflict(ctx, pending)
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	user.ID = id

	s.logger.InfoContext(ctx, "user registered",
		slog.Int64("user_id", id), slog.String("email", user.Email))
	return user, nil
}

// commitConflict names the field a racing registration collided on, with
// email winning the tie-break exactly like the pre-check in RequestCode.
func (s *RegistrationService) commitConflict(ctx context.Context, pending domain.PendingRegistration) error {
	if _, err := s.store.Users().GetUserByEmail(ctx, pending.Email); err == nil {
		return ErrEmailTaken
	}
	if pending.CPF != "" {
		if _, err := s.store.Users().GetUserByCPF(ctx, pending.CPF); err == nil {
			return ErrCPFTaken
		}
	}
	return ErrEmailTaken
}
