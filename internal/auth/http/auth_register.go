package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/service"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/httpx"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/slogx"
)

const minPasswordLength = 8

// RegisterHandler serves POST /v1/auth/register
type RegisterHandler struct {
	LoginService *service.LoginService
	Cookies      CookieConfig
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeHTTP godoc
//
//	@Summary		Registration Endpoint
//	@Description	Creates a new account and immediately starts its first session, so the response carries a usable token pair.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		registerRequest	true	"New account credentials"
//	@Success		201		{object}	TokenResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		400		{object}	httpx.APIError	"error, error_description"
//	@Failure		409		{object}	httpx.APIError	"error, error_description"
//	@Failure		503		{object}	httpx.APIError	"error, error_description"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	// ParseAddress accepts display-name forms like `bob <bob@x.com>`; only a
	// bare address may become the stored account email.
	email := service.NormalizeEmail(req.Email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}
	if len(req.Password) < minPasswordLength {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	_, pair, err := h.LoginService.Register(ctx, email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			httpx.ErrEmailTaken.WriteError(w)
		case errors.Is(err, service.ErrStorageUnavailable):
			log.Error("register failed: storage unavailable", "err", err)
			httpx.ErrStorageUnavailable.WriteError(w)
		default:
			log.Error("register failed", "err", err)
			httpx.ErrServerError.WriteError(w)
		}
		return
	}

	writeAccessCookie(w, h.Cookies, pair.AccessToken)
	httpx.WriteJSON(w, http.StatusCreated, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	})
}
