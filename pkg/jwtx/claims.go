package jwtx

import "github.com/golang-jwt/jwt/v5"

// AccessClaims are the claims carried by a short-lived access token.
//
// RefreshToken embeds the refresh token the session was minted with. The gate
// compares it against the stored session row, which is what binds an access
// token to the one live session: replacing the session invalidates every
// access token derived from the old one at its next refresh attempt.
type AccessClaims struct {
	Email        string `json:"email"`
	RefreshToken string `json:"rtk"`
	jwt.RegisteredClaims
}

// RefreshClaims are the claims carried by a long-lived refresh token. The ID
// (jti) claim guarantees no two refresh tokens are ever identical, even for
// the same user within the same second.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c AccessClaims) UserID() string { return c.Subject }

// UserID returns the subject claim.
func (c RefreshClaims) UserID() string { return c.Subject }
