package service

import (
	"context"
	"errors"
	"time"

	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/domain"
	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/store"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/cryptox"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/idx"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/jwtx"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/slogx"
)

// LoginService coordinates the login path: credential verification, session
// replacement and token issuance. Token attachment (cookie or header) is the
// transport layer's job.
type LoginService struct {
	Store       store.Store
	Issuer      *jwtx.Issuer
	Credentials CredentialVerifier
}

// Login verifies the credentials and starts a fresh session for the user.
// Exactly one session row exists for the user afterward, regardless of how
// many logins preceded this one.
func (s *LoginService) Login(ctx context.Context, email, password string) (domain.User, *domain.TokenPair, error) {
	u, err := s.Credentials.Verify(ctx, email, password)
	if err != nil {
		return domain.User{}, nil, err
	}

	pair, err := s.StartSession(ctx, u)
	if err != nil {
		return domain.User{}, nil, err
	}

	slogx.FromContext(ctx).Info("user logged in", "user_id", u.ID)
	return u, pair, nil
}

// Register creates a user and immediately starts their first session, so a
// fresh signup is logged in without a second round trip.
func (s *LoginService) Register(ctx context.Context, email, password string) (domain.User, *domain.TokenPair, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, nil, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
	}

	refreshToken, err := s.Issuer.IssueRefresh(u.ID)
	if err != nil {
		return domain.User{}, nil, err
	}

	// User row and session row appear together or not at all.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return tx.Sessions().Replace(ctx, domain.Session{
			UserID:       u.ID,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().UTC().Add(s.Issuer.RefreshTTL()),
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, nil, ErrEmailTaken
		}
		return domain.User{}, nil, storageErr(err)
	}

	accessToken, err := s.Issuer.IssueAccess(u.ID, u.Email, refreshToken)
	if err != nil {
		return domain.User{}, nil, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", u.ID)
	return u, &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.Issuer.AccessTTL(),
	}, nil
}

// StartSession atomically replaces any existing session for the user and
// issues a new token pair bound to it. This is the single-session enforcement
// point on the login path: the upsert invalidates every refresh token minted
// by earlier logins.
func (s *LoginService) StartSession(ctx context.Context, u domain.User) (*domain.TokenPair, error) {
	refreshToken, err := s.Issuer.IssueRefresh(u.ID)
	if err != nil {
		return nil, err
	}

	err = s.Store.Sessions().Replace(ctx, domain.Session{
		UserID:       u.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().UTC().Add(s.Issuer.RefreshTTL()),
	})
	if err != nil {
		return nil, storageErr(err)
	}

	accessToken, err := s.Issuer.IssueAccess(u.ID, u.Email, refreshToken)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.Issuer.AccessTTL(),
	}, nil
}

// Logout destroys the user's session. The old refresh token stops being
// accepted immediately; outstanding access tokens die at their own expiry.
func (s *LoginService) Logout(ctx context.Context, userID string) error {
	if err := s.Store.Sessions().Delete(ctx, userID); err != nil {
		return storageErr(err)
	}
	slogx.FromContext(ctx).Info("user logged out", "user_id", userID)
	return nil
}
