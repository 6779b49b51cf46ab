package domain

import "time"

// TokenPair is what a successful login produces: the short-lived access JWT
// and the longer-lived refresh JWT it is bound to.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type,omitempty"` // typically "Bearer"
	ExpiresIn    time.Duration `json:"expires_in"`           // access token lifetime
}
