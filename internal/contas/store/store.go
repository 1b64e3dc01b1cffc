package store

import (
	"context"
	"errors"
	"time"

	"github.com/controlefin/contas/internal/contas/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and testable.
type Store interface {
	Users() Users
	Cards() Cards

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Preferred over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id, whatever its status.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByEmail is used during login and uniqueness checks.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByCPF looks a user up by normalized tax id.
	GetUserByCPF(ctx context.Context, cpf string) (domain.User, error)

	// CreateUser inserts a new user and returns the assigned id. A unique
	// violation on email or cpf surfaces as ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (int64, error)

	// UpdateName mutates the display name.
	UpdateName(ctx context.Context, userID int64, name string) error

	// UpdatePassword sets the stored credential.
	UpdatePassword(ctx context.Context, userID int64, password string) error

	// UpdateEmail rewrites the email in place. ErrAlreadyExists on a
	// unique violation (race with a concurrent registration).
	UpdateEmail(ctx context.Context, userID int64, email string) error

	// UpdateLastLogin stamps ultimo_login.
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error

	// ListUsers returns every user ordered by id. Development helper.
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type Cards interface {
	// CreateCard inserts a card and returns the assigned id. A label
	// unique violation surfaces as ErrAlreadyExists.
	CreateCard(ctx context.Context, c domain.Card) (int64, error)

	// GetCardByOwner fetches a card scoped to its owner. ErrNotFound
	// covers both "no such card" and "someone else's card".
	GetCardByOwner(ctx context.Context, cardID, userID int64) (domain.Card, error)

	// ListActiveCards returns the owner's non-deleted cards.
	ListActiveCards(ctx context.Context, userID int64) ([]domain.Card, error)

	// FindByOwnerAndLabel supports the per-owner duplicate pre-check.
	FindByOwnerAndLabel(ctx context.Context, userID int64, label string) (domain.Card, error)

	// UpdateCard rewrites bank, label and limit, scoped to
	// (card id, owner id). ErrNotFound when no row matched.
	UpdateCard(ctx context.Context, c domain.Card) error

	// SoftDeleteCard flips status to inactive, scoped to the owner.
	// ErrNotFound when no row matched.
	SoftDeleteCard(ctx context.Context, cardID, userID int64) error
}
