package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/service"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/httpx"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/slogx"
)

// LoginHandler serves POST /v1/auth/login
type LoginHandler struct {
	LoginService *service.LoginService
	Cookies      CookieConfig
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Verifies email and password credentials, starts a fresh session and issues an access/refresh token pair.
//	@Description	Any previous session for the user is replaced, so their older tokens stop renewing.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	TokenResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		400		{object}	httpx.APIError	"error, error_description"
//	@Failure		401		{object}	httpx.APIError	"error, error_description"
//	@Failure		503		{object}	httpx.APIError	"error, error_description"
//	@Header			200		{string}	Cache-Control	"no-store"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	email := service.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	_, pair, err := h.LoginService.Login(ctx, email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.ErrInvalidCredentials.WriteError(w)
		case errors.Is(err, service.ErrStorageUnavailable):
			log.Error("login failed: storage unavailable", "err", err)
			httpx.ErrStorageUnavailable.WriteError(w)
		default:
			log.Error("login failed", "err", err)
			httpx.ErrServerError.WriteError(w)
		}
		return
	}

	writeAccessCookie(w, h.Cookies, pair.AccessToken)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	})
}
