package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserID holds the acting user's id in decimal string form.
	CtxKeyUserID ctxKey = "user_id"
	// CtxKeyUser holds the full user snapshot loaded by the session
	// resolver. Stored as `any` so this package stays domain-agnostic.
	CtxKeyUser ctxKey = "user"
)

// UserIDFromContext returns the acting user's id string, or "" when no
// session context has been established.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
