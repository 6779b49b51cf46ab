package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/service"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/httpx"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/slogx"
)

// GateMiddleware runs every protected request through the auth gate. On
// transparent renewal it rewrites the access token cookie before handing the
// request downstream, so the gate itself stays free of transport side effects.
func GateMiddleware(gate *service.GateService, cookies CookieConfig) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			result, err := gate.Authenticate(ctx, readAccessToken(r, cookies))
			if err != nil {
				writeGateRejection(w, r, err)
				return
			}

			if result.Renewed() {
				writeAccessCookie(w, cookies, result.RenewedToken)
			}

			ctx = context.WithValue(ctx, httpx.CtxKeyUserID, result.Claims.UserID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeGateRejection maps every gate rejection kind to its response so the
// client can distinguish "log in again" from "retry".
func writeGateRejection(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		httpx.ErrUnauthenticated.WriteError(w)
	case errors.Is(err, service.ErrTokenInvalid):
		httpx.ErrTokenInvalid.WriteError(w)
	case errors.Is(err, service.ErrSessionNotFound):
		httpx.ErrSessionNotFound.WriteError(w)
	case errors.Is(err, service.ErrSessionSuperseded):
		httpx.ErrSessionSuperseded.WriteError(w)
	case errors.Is(err, service.ErrRefreshExpired):
		httpx.ErrRefreshExpired.WriteError(w)
	case errors.Is(err, service.ErrStorageUnavailable):
		log.Error("gate storage failure", "err", err)
		httpx.ErrStorageUnavailable.WriteError(w)
	default:
		log.Error("gate failed", "err", err)
		httpx.ErrServerError.WriteError(w)
	}
}
