package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/domain"
	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/store"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/cryptox"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailTaken         = errors.New("email_taken")

	// ErrStorageUnavailable wraps storage failures so the transport layer
	// can answer "retry later" instead of "log in again".
	ErrStorageUnavailable = errors.New("storage_unavailable")
)

// CredentialVerifier resolves credentials to a verified user identity. The
// login coordinator only depends on this interface; password hashing and the
// user table are details behind it.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (domain.User, error)
}

// StoreCredentialVerifier verifies credentials against the users table using
// Argon2id password hashes.
type StoreCredentialVerifier struct {
	Store store.Store
}

func (v *StoreCredentialVerifier) Verify(ctx context.Context, email, password string) (domain.User, error) {
	u, err := v.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, storageErr(err)
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	return u, nil
}

// NormalizeEmail lowercases and trims an email address so lookups and
// uniqueness are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
