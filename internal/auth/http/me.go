package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/store"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/httpx"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/slogx"
)

// MeHandler serves GET /v1/auth/me
type MeHandler struct {
	Store store.Store
}

// ServeHTTP godoc
//
//	@Summary		Current User Endpoint
//	@Description	Returns the profile of the authenticated user. When the access token was renewed during this request, the refreshed cookie rides along on the response.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	UserResponse	"id, email, created_at"
//	@Failure		401	{object}	httpx.APIError	"error, error_description"
//	@Failure		503	{object}	httpx.APIError	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		httpx.ErrUnauthenticated.WriteError(w)
		return
	}

	u, err := h.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Token outlived the account.
			httpx.ErrSessionNotFound.WriteError(w)
			return
		}
		log.Error("userinfo lookup failed", "err", err)
		httpx.ErrStorageUnavailable.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	})
}
