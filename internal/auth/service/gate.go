package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/store"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/jwtx"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/slogx"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrTokenInvalid      = errors.New("token_invalid")
	ErrSessionNotFound   = errors.New("session_not_found")
	ErrSessionSuperseded = errors.New("session_superseded")
	ErrRefreshExpired    = errors.New("refresh_expired")
)

// GateService validates the access token on every protected request and
// transparently renews expired ones against the stored session.
type GateService struct {
	Store  store.Store
	Issuer *jwtx.Issuer
}

// GateResult is what a request that passed the gate proceeds with. It is an
// explicit return value: when RenewedToken is set the transport layer is
// responsible for rewriting the cookie/header, keeping the gate free of
// response side effects.
type GateResult struct {
	Claims jwtx.AccessClaims

	// RenewedToken is the freshly issued access token when the presented
	// one was expired but refreshable; empty when the presented token was
	// still valid.
	RenewedToken string
}

// Renewed reports whether the access token was transparently renewed.
func (r GateResult) Renewed() bool { return r.RenewedToken != "" }

// Authenticate runs the request validation state machine.
//
// A valid unexpired token passes as-is. An expired token with a valid
// signature enters the refresh sub-protocol: the stored session must exist,
// its refresh token must match the one embedded in the expired access token,
// and that refresh token must itself be unexpired. Every violated condition
// maps to its own rejection error and never issues a new token.
func (g *GateService) Authenticate(ctx context.Context, rawToken string) (GateResult, error) {
	if rawToken == "" {
		return GateResult{}, ErrUnauthenticated
	}

	claims, err := g.Issuer.VerifyAccess(rawToken)
	switch {
	case err == nil:
		return GateResult{Claims: claims}, nil
	case errors.Is(err, jwtx.ErrTokenExpired):
		return g.renew(ctx, claims)
	default:
		// A tampered or foreign-secret token must never trigger a
		// refresh attempt: its embedded refresh claim cannot be trusted.
		return GateResult{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
}

func (g *GateService) renew(ctx context.Context, claims jwtx.AccessClaims) (GateResult, error) {
	l := slogx.FromContext(ctx)

	session, err := g.Store.Sessions().Get(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Logged out, or logged in elsewhere and swept since.
			return GateResult{}, ErrSessionNotFound
		}
		return GateResult{}, storageErr(err)
	}

	if subtle.ConstantTimeCompare([]byte(session.RefreshToken), []byte(claims.RefreshToken)) != 1 {
		l.Info("stale access token rejected", "user_id", claims.UserID())
		return GateResult{}, ErrSessionSuperseded
	}

	if _, err := g.Issuer.VerifyRefresh(session.RefreshToken); err != nil {
		if errors.Is(err, jwtx.ErrTokenExpired) {
			return GateResult{}, ErrRefreshExpired
		}
		return GateResult{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	renewed, err := g.Issuer.IssueAccess(claims.UserID(), claims.Email, session.RefreshToken)
	if err != nil {
		return GateResult{}, err
	}

	l.Debug("access token renewed", "user_id", claims.UserID())
	return GateResult{Claims: claims, RenewedToken: renewed}, nil
}
