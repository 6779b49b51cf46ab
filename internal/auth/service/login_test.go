package service_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/service"
	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/store"
	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/store/drivers/sqlite"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/jwtx"
)

const (
	accessSecret  = "login-test-access-secret"
	refreshSecret = "login-test-refresh-secret"
)

type testEnv struct {
	store  store.Store
	issuer *jwtx.Issuer
	login  *service.LoginService
	gate   *service.GateService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(fmt.Sprintf("file:%s", filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	issuer, err := jwtx.NewIssuer(accessSecret, refreshSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	return &testEnv{
		store:  st,
		issuer: issuer,
		login: &service.LoginService{
			Store:       st,
			Issuer:      issuer,
			Credentials: &service.StoreCredentialVerifier{Store: st},
		},
		gate: &service.GateService{Store: st, Issuer: issuer},
	}
}

// TestRegisterCreatesUserAndSession verifies registration produces a stored
// user, a live session, and an access token bound to that session.
func TestRegisterCreatesUserAndSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, pair, err := env.login.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "alice@example.com", u.Email)

	stored, err := env.store.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, stored.ID)
	require.NotEqual(t, "hunter2hunter2", stored.PasswordHash, "password must be hashed")

	session, err := env.store.Sessions().Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, pair.RefreshToken, session.RefreshToken)

	claims, err := env.issuer.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID())
	require.Equal(t, pair.RefreshToken, claims.RefreshToken,
		"access token must embed the session's refresh token")
}

// TestRegisterDuplicateEmail verifies the conflict surfaces as ErrEmailTaken
// and the original account is untouched.
func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.login.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, _, err = env.login.Register(ctx, "alice@example.com", "different-password")
	require.ErrorIs(t, err, service.ErrEmailTaken)

	_, _, err = env.login.Login(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err, "original account should still work")
}

// TestLoginVerifiesCredentials covers the three credential outcomes: correct
// password, wrong password, unknown email. The two failures are the same
// error so callers cannot probe which emails exist.
func TestLoginVerifiesCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.login.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, pair, err := env.login.Login(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.Equal(t, "Bearer", pair.TokenType)

	_, _, err = env.login.Login(ctx, "alice@example.com", "wrong-password")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = env.login.Login(ctx, "nobody@example.com", "hunter2hunter2")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

// TestLoginReplacesPreviousSession is the single-session rule: after a second
// login only the newest refresh token is stored, so tokens from the first
// login can no longer renew.
func TestLoginReplacesPreviousSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, first, err := env.login.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, second, err := env.login.Login(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	session, err := env.store.Sessions().Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, second.RefreshToken, session.RefreshToken,
		"only the newest login's refresh token survives")
}

// TestRapidSuccessiveLoginsSupersede runs two logins back to back, fast
// enough to land inside one clock second, and verifies the second still
// replaces the first: the refresh tokens differ, and an expired access token
// from the first login is rejected as superseded rather than renewed.
func TestRapidSuccessiveLoginsSupersede(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, _, err := env.login.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, first, err := env.login.Login(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	_, second, err := env.login.Login(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken,
		"same-second logins must still mint distinct refresh tokens")

	expired := signExpiredAccess(t, u.ID, u.Email, first.RefreshToken)
	_, err = env.gate.Authenticate(ctx, expired)
	require.ErrorIs(t, err, service.ErrSessionSuperseded,
		"the earlier login's tokens must stop renewing")
}

// TestLogoutDeletesSession verifies logout removes the session row and is
// idempotent.
func TestLogoutDeletesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, _, err := env.login.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, env.login.Logout(ctx, u.ID))

	_, err = env.store.Sessions().Get(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, env.login.Logout(ctx, u.ID), "logging out twice is fine")
}

// TestConcurrentLoginsLeaveOneSession hammers Login from several goroutines
// and verifies exactly one stored session remains and it belongs to one of
// the winners.
func TestConcurrentLoginsLeaveOneSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, _, err := env.login.Register(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	const workers = 8
	tokens := make(chan string, workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, pair, err := env.login.Login(ctx, "alice@example.com", "hunter2hunter2")
			if err != nil {
				errs <- err
				return
			}
			tokens <- pair.RefreshToken
		}()
	}

	issued := make(map[string]bool)
	for i := 0; i < workers; i++ {
		select {
		case tok := <-tokens:
			issued[tok] = true
		case err := <-errs:
			t.Fatalf("concurrent login failed: %v", err)
		}
	}

	session, err := env.store.Sessions().Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, issued[session.RefreshToken],
		"the stored session must be one of the issued refresh tokens")
}
