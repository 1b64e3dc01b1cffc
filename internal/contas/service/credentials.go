package service

import (
	"crypto/subtle"
	"errors"

	"github.com/controlefin/contas/pkg/cryptox"
)

// Credentials encodes passwords for storage and checks login attempts
// against the stored form.
type Credentials interface {
	Encode(plain string) (string, error)
	Compare(stored, plain string) error
}

// PlainCredentials stores passwords verbatim and compares by equality. This
// is the scheme the existing database rows were written with, so it stays
// the default until those rows are migrated.
type PlainCredentials struct{}

func (PlainCredentials) Encode(plain string) (string, error) {
	return plain, nil
}

func (PlainCredentials) Compare(stored, plain string) error {
	if subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

// Argon2Credentials stores argon2id hashes. Opt-in via CONTAS_PASSWORD_MODE;
// existing plaintext rows will stop matching once enabled.
type Argon2Credentials struct{}

func (Argon2Credentials) Encode(plain string) (string, error) {
	return cryptox.HashPassword(plain)
}

func (Argon2Credentials) Compare(stored, plain string) error {
	if err := cryptox.VerifyPassword(plain, stored); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return ErrInvalidCredentials
		}
		return err
	}
	return nil
}
