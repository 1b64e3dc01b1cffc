// Package notify delivers verification codes to users.
package notify

import "context"

// Notifier sends a 6-digit verification code to an email address. A returned
// error means the code never reached the user and the pending attempt that
// produced it should be rolled back.
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}
