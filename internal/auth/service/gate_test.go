package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/domain"
	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/service"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/jwtx"
)

// signExpiredAccess mints an access token that expired an hour ago, signed
// with the real access secret so the signature still verifies.
func signExpiredAccess(t *testing.T, userID, email, refreshToken string) string {
	t.Helper()
	claims := jwtx.AccessClaims{
		Email:        email,
		RefreshToken: refreshToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(accessSecret))
	require.NoError(t, err)
	return raw
}

// signExpiredRefresh mints a refresh token that expired an hour ago.
func signExpiredRefresh(t *testing.T, userID string) string {
	t.Helper()
	claims := jwtx.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(refreshSecret))
	require.NoError(t, err)
	return raw
}

// TestGateValidTokenPasses verifies a live access token passes untouched,
// with no renewal and no session lookup side effects.
func TestGateValidTokenPasses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, pair, err := env.login.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	result, err := env.gate.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.False(t, result.Renewed())
	require.Equal(t, u.ID, result.Claims.UserID())
	require.Equal(t, "alice@example.com", result.Claims.Email)
}

// TestGateMissingToken verifies an absent token is rejected before any
// parsing or storage work.
func TestGateMissingToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.gate.Authenticate(context.Background(), "")
	require.ErrorIs(t, err, service.ErrUnauthenticated)
}

// TestGateGarbageToken verifies malformed tokens map to ErrTokenInvalid.
func TestGateGarbageToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.gate.Authenticate(context.Background(), "not.a.jwt")
	require.ErrorIs(t, err, service.ErrTokenInvalid)
}

// TestGateRenewsExpiredToken is the happy renewal path: an expired access
// token whose embedded refresh token matches the live session gets a fresh
// access token without any re-login.
func TestGateRenewsExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, pair, err := env.login.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	expired := signExpiredAccess(t, u.ID, u.Email, pair.RefreshToken)

	result, err := env.gate.Authenticate(ctx, expired)
	require.NoError(t, err)
	require.True(t, result.Renewed())
	require.NotEqual(t, expired, result.RenewedToken)

	// The renewed token is live, carries the same identity, and stays bound
	// to the same session.
	claims, err := env.issuer.VerifyAccess(result.RenewedToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID())
	require.Equal(t, u.Email, claims.Email)
	require.Equal(t, pair.RefreshToken, claims.RefreshToken)
}

// TestGateSessionNotFound verifies an expired token after logout maps to
// ErrSessionNotFound: there is nothing left to renew against.
func TestGateSessionNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, pair, err := env.login.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NoError(t, env.login.Logout(ctx, u.ID))

	expired := signExpiredAccess(t, u.ID, u.Email, pair.RefreshToken)

	_, err = env.gate.Authenticate(ctx, expired)
	require.ErrorIs(t, err, service.ErrSessionNotFound)
}

// TestGateSessionSuperseded verifies that after a second login, expired
// tokens from the first login are rejected as superseded: their embedded
// refresh token no longer matches the stored session.
func TestGateSessionSuperseded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, first, err := env.login.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, _, err = env.login.Login(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	expired := signExpiredAccess(t, u.ID, u.Email, first.RefreshToken)

	_, err = env.gate.Authenticate(ctx, expired)
	require.ErrorIs(t, err, service.ErrSessionSuperseded)
}

// TestGateRefreshExpired verifies an expired access token over an expired
// refresh token demands a full re-login rather than renewing.
func TestGateRefreshExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, _, err := env.login.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	// Plant a session whose refresh token is already past its expiry, as if
	// the user had been away longer than the refresh TTL.
	staleRefresh := signExpiredRefresh(t, u.ID)
	require.NoError(t, env.store.Sessions().Replace(ctx, domain.Session{
		UserID:       u.ID,
		RefreshToken: staleRefresh,
		ExpiresAt:    time.Now().Add(-time.Hour),
	}))

	expired := signExpiredAccess(t, u.ID, u.Email, staleRefresh)

	_, err = env.gate.Authenticate(ctx, expired)
	require.ErrorIs(t, err, service.ErrRefreshExpired)
}

// TestGateTamperedTokenNeverRenews verifies a token with a broken signature
// is ErrTokenInvalid even when a matching live session exists; its claims
// must not be trusted enough to attempt the refresh path.
func TestGateTamperedTokenNeverRenews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, pair, err := env.login.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	expired := signExpiredAccess(t, u.ID, u.Email, pair.RefreshToken)
	tampered := expired[:len(expired)-4] + "AAAA"

	_, err = env.gate.Authenticate(ctx, tampered)
	require.ErrorIs(t, err, service.ErrTokenInvalid)
}

// TestStorageUnavailable verifies storage failures surface as
// ErrStorageUnavailable on both the renewal and login paths, never as an
// authentication failure: clients must be able to tell "retry later" apart
// from "log in again".
func TestStorageUnavailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, pair, err := env.login.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	expired := signExpiredAccess(t, u.ID, u.Email, pair.RefreshToken)

	// Kill the database out from under the services.
	require.NoError(t, env.store.Close())

	_, err = env.gate.Authenticate(ctx, expired)
	require.ErrorIs(t, err, service.ErrStorageUnavailable)
	require.NotErrorIs(t, err, service.ErrSessionNotFound,
		"a dead store must not look like a missing session")

	_, _, err = env.login.Login(ctx, "alice@example.com", "hunter2hunter2")
	require.ErrorIs(t, err, service.ErrStorageUnavailable)
	require.NotErrorIs(t, err, service.ErrInvalidCredentials,
		"a dead store must not look like bad credentials")
}

// TestGateLazyRevocation documents the revocation model: a still-unexpired
// access token keeps passing after logout and even after a new login. The
// session is only consulted at renewal time, so revocation takes effect at
// the token's natural expiry.
func TestGateLazyRevocation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, pair, err := env.login.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NoError(t, env.login.Logout(ctx, u.ID))

	result, err := env.gate.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err, "unexpired token passes without a session lookup")
	require.False(t, result.Renewed())
}
