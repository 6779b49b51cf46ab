package http

import (
	"net/http"

	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/service"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/httpx"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/slogx"
)

// LogoutHandler serves POST /v1/auth/logout
// Runs behind the gate, so the session being destroyed is always the caller's own.
type LogoutHandler struct {
	LoginService *service.LoginService
	Cookies      CookieConfig
}

// ServeHTTP godoc
//
//	@Summary		Logout Endpoint
//	@Description	Destroys the caller's session and clears the access token cookie. The refresh token stops renewing immediately.
//	@Tags			Auth
//	@Produce		json
//	@Success		204	"session destroyed"
//	@Failure		401	{object}	httpx.APIError	"error, error_description"
//	@Failure		503	{object}	httpx.APIError	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		httpx.ErrUnauthenticated.WriteError(w)
		return
	}

	if err := h.LoginService.Logout(ctx, userID); err != nil {
		log.Error("logout failed", "err", err)
		httpx.ErrStorageUnavailable.WriteError(w)
		return
	}

	clearAccessCookie(w, h.Cookies)
	w.WriteHeader(http.StatusNoContent)
}
