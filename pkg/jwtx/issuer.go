// Package jwtx issues and verifies the two token kinds used by the auth
// service: short-lived access tokens and long-lived refresh tokens. The two
// kinds are signed with independent HS256 secrets so a leaked access secret
// cannot be used to forge refresh tokens.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Traam0/nextJs-jswt-dbSession/pkg/idx"
)

const (
	// DefaultAccessTokenTTL bounds the exposure window of a stolen access token.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL bounds how often a re-login is required.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	// ErrTokenInvalid reports a malformed token or a bad signature. It is
	// never recoverable: a token that fails signature verification must not
	// trigger a refresh attempt, since none of its claims can be trusted.
	ErrTokenInvalid = errors.New("jwtx: invalid token")

	// ErrTokenExpired reports a token whose signature verified but whose
	// expiry has passed. Recoverable for access tokens via the refresh path.
	ErrTokenExpired = errors.New("jwtx: token expired")

	// ErrKeyMisconfigured reports missing or unusable signing secrets.
	// Startup-fatal, never surfaced per-request.
	ErrKeyMisconfigured = errors.New("jwtx: signing key misconfigured")
)

// Issuer signs and verifies access and refresh tokens. It is stateless and
// safe for concurrent use.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	now func() time.Time // overridable for tests
}

// NewIssuer validates the secret configuration and returns an Issuer.
// Zero TTLs fall back to the package defaults.
func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("%w: empty secret", ErrKeyMisconfigured)
	}
	if accessSecret == refreshSecret {
		return nil, fmt.Errorf("%w: access and refresh secrets must differ", ErrKeyMisconfigured)
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}

	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}, nil
}

// AccessTTL returns the configured access token lifetime.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// IssueRefresh signs a refresh token for the given user. The jti claim makes
// every refresh token unique: timestamps alone have second granularity, and
// two logins within one second must still produce distinct tokens or session
// replacement would overwrite a row with an identical token and never
// invalidate the earlier login.
func (i *Issuer) IssueRefresh(userID string) (string, error) {
	now := i.now().UTC()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        idx.New().String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.refreshTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyMisconfigured, err)
	}
	return signed, nil
}

// IssueAccess signs an access token carrying the user's email and the refresh
// token of the session it belongs to.
func (i *Issuer) IssueAccess(userID, email, refreshToken string) (string, error) {
	now := i.now().UTC()
	claims := AccessClaims{
		Email:        email,
		RefreshToken: refreshToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.accessSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyMisconfigured, err)
	}
	return signed, nil
}

// VerifyAccess checks the signature and expiry of an access token.
//
// When the token is expired but its signature verified, the parsed claims are
// returned alongside ErrTokenExpired: the claims are trustworthy and the gate
// needs them to run the refresh sub-protocol.
func (i *Issuer) VerifyAccess(raw string) (AccessClaims, error) {
	var claims AccessClaims
	err := i.verify(raw, &claims, i.accessSecret)
	return claims, err
}

// VerifyRefresh checks the signature and expiry of a refresh token.
func (i *Issuer) VerifyRefresh(raw string) (RefreshClaims, error) {
	var claims RefreshClaims
	err := i.verify(raw, &claims, i.refreshSecret)
	return claims, err
}

func (i *Issuer) verify(raw string, claims jwt.Claims, secret []byte) error {
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return i.now() }),
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		// Signature already verified at this point; the parser only
		// validates claims after the signature checks out.
		return ErrTokenExpired
	default:
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
}
