package httpx

import "context"

type ctxKey string

// CtxKeyUserID carries the authenticated user's ID, set by the auth gate.
const CtxKeyUserID ctxKey = "user_id"

// UserIDFromCtx returns the authenticated user's ID, or "" when the request
// did not pass the auth gate.
func UserIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
