package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/controlefin/contas/internal/contas/domain"
	"github.com/controlefin/contas/internal/contas/identity"
	"github.com/controlefin/contas/internal/contas/store"
	"github.com/controlefin/contas/pkg/httpx"
	"github.com/controlefin/contas/pkg/slogx"
)

// SessionMiddleware resolves the acting user and loads the account snapshot
// into the request context before the handler runs. A request with no
// resolvable id is rejected with 401, a resolvable id that matches no
// account with 404.
func SessionMiddleware(provider identity.Provider, st store.Store) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := provider.Resolve(r)
			if err != nil {
				httpx.WriteMessage(w, http.StatusUnauthorized, "ID de usuário não fornecido.")
				return
			}

			user, err := st.Users().GetUserByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					httpx.WriteMessage(w, http.StatusNotFound, "Usuário não encontrado.")
					return
				}
				slogx.FromContext(r.Context()).Error("load session user",
					"user_id", userID, "err", err)
				httpx.WriteMessage(w, http.StatusInternalServerError, "Erro interno ao carregar perfil.")
				return
			}

			ctx := context.WithValue(r.Context(), httpx.CtxKeyUserID,
				strconv.FormatInt(user.ID, 10))
			ctx = context.WithValue(ctx, httpx.CtxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionUserID reads the id established by SessionMiddleware. The second
// return is false only when the middleware did not run, which is a routing
// bug rather than a client error.
func sessionUserID(ctx context.Context) (int64, bool) {
	raw := httpx.UserIDFromContext(ctx)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// sessionUser returns the snapshot SessionMiddleware loaded. Handlers hand
// it straight to the services so a guarded request touches the users table
// exactly once.
func sessionUser(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(httpx.CtxKeyUser).(domain.User)
	return user, ok
}
