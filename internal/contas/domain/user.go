package domain

import "time"

// Account kinds (tipo_user column). Registration always commits standard
// accounts; admin is reserved for manual provisioning.
const (
	AccountAdmin    = 1
	AccountStandard = 2
)

// Account statuses (status column). Soft delete flips Active to Inactive,
// rows are never removed.
const (
	StatusInactive = 0
	StatusActive   = 1
)

type User struct {
	ID        int64
	Name      string
	Email     string // globally unique
	Password  string // opaque credential; plain or argon2id depending on mode
	CPF       string // normalized 11-digit tax id, "" when not provided; unique
	BirthDate string // ISO date, "" when not provided
	Kind      int
	Status    int
	LastLogin *time.Time
}

// Active reports whether the account may authenticate and be acted upon.
func (u User) Active() bool { return u.Status == StatusActive }
