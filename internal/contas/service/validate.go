package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// normalizeEmail lowercases and trims so lookups and ledger keys agree on a
// single spelling.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// normalizeCPF strips formatting from a Brazilian tax id. Every non-digit
// is discarded first, then the remainder must be exactly 11 digits. Empty
// input is allowed, the field is optional.
func normalizeCPF(cpf string) (string, error) {
	if strings.TrimSpace(cpf) == "" {
		return "", nil
	}

	var digits strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	if digits.Len() != 11 {
		return "", ErrInvalidInput
	}
	return digits.String(), nil
}

// checkPasswordPolicy enforces the minimum credential strength: at least 6
// characters with an upper case letter, a lower case letter and a digit.
func checkPasswordPolicy(password string) error {
	if len(password) < 6 {
		return ErrWeakPassword
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrWeakPassword
	}
	return nil
}

// newVerificationCode draws a uniform 6-digit code, zero padded.
func newVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("service: generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
