package store

import (
	"context"
	"errors"
	"time"

	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and it is the dependency handed to services at construction so
// nothing reaches for an ambient database handle.
type Store interface {
	Users() Users
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. This is the recommended way to run
	// multi-step operations that must be atomic (e.g. register = create
	// user + create session).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during credential verification.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// DeleteUser cascades to the user's session (per schema).
	DeleteUser(ctx context.Context, userID string) error
}

type Sessions interface {
	// Replace atomically removes any existing session for the user and
	// stores the new one, as a single upsert keyed by the unique user_id.
	// This is the single-session enforcement point: no read-then-write
	// pair, and no window where a concurrent reader can observe two
	// sessions for the same user.
	Replace(ctx context.Context, s domain.Session) error

	// Get returns the user's current session, or ErrNotFound.
	Get(ctx context.Context, userID string) (domain.Session, error)

	// Delete removes the user's session (logout). Deleting a missing
	// session is not an error.
	Delete(ctx context.Context, userID string) error

	// DeleteExpired removes sessions whose refresh tokens expired before
	// the given instant. Housekeeping only: the gate independently checks
	// refresh expiry at use time, so stale rows are harmless.
	DeleteExpired(ctx context.Context, before time.Time) error
}
