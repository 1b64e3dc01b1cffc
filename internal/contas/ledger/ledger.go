// Package ledger holds the single-slot pending-verification table shared by
// the registration and email-change workflows. Each key carries at most one
// outstanding attempt: an opaque payload snapshot, the emailed 6-digit code
// and an absolute expiry.
package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound reports that no pending entry exists for the key.
	ErrNotFound = errors.New("ledger: no pending entry")
	// ErrExpired reports that the entry's deadline passed; the entry has
	// been removed and the originating workflow must restart.
	ErrExpired = errors.New("ledger: entry expired")
	// ErrCodeMismatch reports a wrong code. The entry is retained so the
	// caller may retry until expiry.
	ErrCodeMismatch = errors.New("ledger: code mismatch")
)

// Entry is a pending verification attempt.
type Entry struct {
	Payload   []byte
	Code      string
	ExpiresAt time.Time
}

// Ledger is a keyed store of pending verification attempts. Implementations
// must make Put/Peek/Verify/Delete on the same key mutually exclusive;
// operations on distinct keys carry no ordering guarantee. Entries are not
// durable: a process restart may discard all pending attempts.
type Ledger interface {
	// Put records a pending attempt, silently replacing any existing
	// entry for key.
	Put(ctx context.Context, key string, payload []byte, code string, ttl time.Duration) error

	// Peek reads the entry without side effects. ErrNotFound when absent.
	Peek(ctx context.Context, key string) (Entry, error)

	// Verify checks code against the entry for key. On a match the entry
	// is consumed atomically and its payload returned. ErrNotFound when
	// absent, ErrExpired (entry removed) past the deadline,
	// ErrCodeMismatch (entry retained) on a wrong code.
	Verify(ctx context.Context, key, code string) ([]byte, error)

	// Delete removes the entry for key, if any. Used to roll back an
	// attempt whose code could never be delivered.
	Delete(ctx context.Context, key string) error

	// SweepExpired drops entries past their deadline and reports how many
	// were removed. Memory hygiene only; an unswept expired entry already
	// behaves exactly like an absent one.
	SweepExpired(ctx context.Context) (int, error)
}
