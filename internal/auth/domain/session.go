package domain

import "time"

// Session binds a user to their current live refresh token. The store keeps
// at most one session per user: replacing it is what silently invalidates a
// previous login on another device.
type Session struct {
	UserID       string
	RefreshToken string
	ExpiresAt    time.Time // mirror of the refresh token's exp, for sweeping
	CreatedAt    time.Time
}
