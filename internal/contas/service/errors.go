package service

import "errors"

// Service errors form the contract with the transport layer: each sentinel
// maps to exactly one HTTP status and user-facing message.
var (
	// ErrInvalidInput covers missing or malformed request fields.
	ErrInvalidInput = errors.New("service: invalid input")

	// ErrWeakPassword reports a password below policy: at least 6
	// characters with an upper case letter, a lower case letter and a
	// digit.
	ErrWeakPassword = errors.New("service: password below policy")

	// ErrSamePassword reports a password change to the current password.
	ErrSamePassword = errors.New("service: new password equals current")

	// ErrSameEmail reports an email change to the address already in use
	// by the same account.
	ErrSameEmail = errors.New("service: new email equals current")

	// ErrEmailTaken reports that another account owns the email.
	ErrEmailTaken = errors.New("service: email already registered")

	// ErrCPFTaken reports that another account owns the tax id.
	ErrCPFTaken = errors.New("service: cpf already registered")

	// ErrLabelTaken reports a duplicate card label.
	ErrLabelTaken = errors.New("service: card label already in use")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so login failures stay indistinguishable.
	ErrInvalidCredentials = errors.New("service: invalid credentials")

	// ErrUserInactive blocks login for deactivated accounts.
	ErrUserInactive = errors.New("service: user inactive")

	// ErrUserNotFound reports that the claimed user id matches no account.
	ErrUserNotFound = errors.New("service: user not found")

	// ErrCardNotFound covers a missing card and a card owned by someone
	// else, indistinguishably.
	ErrCardNotFound = errors.New("service: card not found")

	// ErrNoPending reports a verification with no outstanding attempt,
	// whether one never existed or it already expired away.
	ErrNoPending = errors.New("service: no pending verification")

	// ErrCodeExpired reports a verification past its deadline. The
	// pending attempt is gone and the workflow must restart.
	ErrCodeExpired = errors.New("service: verification code expired")

	// ErrBadCode reports a wrong code. The attempt survives for a retry.
	ErrBadCode = errors.New("service: wrong verification code")

	// ErrPendingMismatch reports a verification whose submitted email does
	// not match the pending attempt it tries to confirm.
	ErrPendingMismatch = errors.New("service: verification does not match pending attempt")

	// ErrDeliveryFailed reports that the verification code could not be
	// emailed. The pending attempt has been rolled back.
	ErrDeliveryFailed = errors.New("service: could not deliver verification code")
)
