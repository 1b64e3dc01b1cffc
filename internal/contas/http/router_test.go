package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/controlefin/contas/internal/contas/domain"
	"github.com/controlefin/contas/internal/contas/identity"
	"github.com/controlefin/contas/internal/contas/ledger"
	"github.com/controlefin/contas/internal/contas/service"
	"github.com/controlefin/contas/internal/contas/store"
	"github.com/controlefin/contas/internal/contas/store/drivers/sqlite"
)

type capturedCode struct {
	Email string
	Code  string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []capturedCode
}

func (n *fakeNotifier) SendVerificationCode(_ context.Context, email, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, capturedCode{Email: email, Code: code})
	return nil
}

func (n *fakeNotifier) last(t *testing.T) capturedCode {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent)
	return n.sent[len(n.sent)-1]
}

func newTestRouter(t *testing.T) (*Router, *fakeNotifier) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	lg := ledger.NewMemory()
	notifier := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	creds := service.PlainCredentials{}
	ttl := 15 * time.Minute

	r := NewRouter(identity.NewPayloadProvider(), "test", "", st, logger)
	r.RegistrationService = service.NewRegistrationService(st, lg, notifier, creds, ttl, logger)
	r.EmailChangeService = service.NewEmailChangeService(st, lg, notifier, ttl, logger)
	r.LoginService = service.NewLoginService(st, creds, nil, 0, logger)
	r.ProfileService = service.NewProfileService(st, creds, logger)
	r.CardService = service.NewCardService(st, logger)
	r.ApplyRoutes()

	return r, notifier
}

func do(t *testing.T, r *Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// registerUser runs the two-step signup over HTTP and returns the user id.
func registerUser(t *testing.T, r *Router, n *fakeNotifier, email string) int64 {
	t.Helper()

	rec := do(t, r, "POST", "/users/send-code", map[string]any{
		"nome":  "Ana Souza",
		"email": email,
		"senha": "Segura123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, r, "POST", "/users/verify-register", map[string]any{
		"email": email,
		"code":  n.last(t).Code,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	return int64(body["userId"].(float64))
}

func TestRegistrationFlow(t *testing.T) {
	r, n := newTestRouter(t)

	rec := do(t, r, "POST", "/users/send-code", map[string]any{
		"nome":          "Ana Souza",
		"email":         "ana@example.com",
		"senha":         "Segura123",
		"dt_nascimento": "1995-04-12",
		"cpf":           "529.982.247-25",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sent := n.last(t)
	require.Equal(t, "ana@example.com", sent.Email)

	t.Run("wrong code", func(t *testing.T) {
		wrong := "000000"
		if wrong == sent.Code {
			wrong = "000001"
		}
		rec := do(t, r, "POST", "/users/verify-register", map[string]any{
			"email": "ana@example.com",
			"code":  wrong,
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("correct code creates the account", func(t *testing.T) {
		rec := do(t, r, "POST", "/users/verify-register", map[string]any{
			"email": "ana@example.com",
			"code":  sent.Code,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		body := decodeBody(t, rec)
		require.Equal(t, "Usuário registrado com sucesso!", body["message"])
		require.NotZero(t, body["userId"])
		user := body["user"].(map[string]any)
		require.Equal(t, "Ana Souza", user["nome"])
		require.Equal(t, "ana@example.com", user["email"])
	})

	t.Run("email now conflicts", func(t *testing.T) {
		rec := do(t, r, "POST", "/users/send-code", map[string]any{
			"nome":  "Outra Ana",
			"email": "ana@example.com",
			"senha": "Segura123",
		})
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Equal(t, "Este email já está cadastrado.", decodeBody(t, rec)["message"])
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := do(t, r, "POST", "/users/send-code", map[string]any{"email": "x@example.com"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	r, n := newTestRouter(t)
	registerUser(t, r, n, "ana@example.com")

	t.Run("success", func(t *testing.T) {
		rec := do(t, r, "POST", "/users/login", map[string]any{
			"email": "ana@example.com",
			"senha": "Segura123",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decodeBody(t, rec)
		require.Equal(t, "Login realizado com sucesso!", body["message"])
		user := body["user"].(map[string]any)
		require.Equal(t, "ana@example.com", user["email"])
		require.NotEmpty(t, user["ultimo_login"])
		require.NotContains(t, user, "senha")
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := do(t, r, "POST", "/users/login", map[string]any{
			"email": "ana@example.com",
			"senha": "Errada123",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email fails the same way", func(t *testing.T) {
		rec := do(t, r, "POST", "/users/login", map[string]any{
			"email": "ninguem@example.com",
			"senha": "Segura123",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Credenciais inválidas.", decodeBody(t, rec)["message"])
	})
}

func TestSessionResolution(t *testing.T) {
	r, n := newTestRouter(t)
	id := registerUser(t, r, n, "ana@example.com")

	t.Run("missing user id", func(t *testing.T) {
		rec := do(t, r, "PUT", "/users/management/name", map[string]any{"newName": "Novo Nome"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "ID de usuário não fornecido.", decodeBody(t, rec)["message"])
	})

	t.Run("unknown user id", func(t *testing.T) {
		rec := do(t, r, "PUT", "/users/management/name", map[string]any{
			"userId": 9999, "newName": "Novo Nome",
		})
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Usuário não encontrado.", decodeBody(t, rec)["message"])
	})

	t.Run("id from body", func(t *testing.T) {
		rec := do(t, r, "PUT", "/users/management/name", map[string]any{
			"userId": id, "newName": "Ana Clara",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Equal(t, "Nome atualizado com sucesso!", decodeBody(t, rec)["message"])
	})

	t.Run("id from query", func(t *testing.T) {
		rec := do(t, r, "GET", fmt.Sprintf("/cards?userId=%d", id), nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestPasswordManagement(t *testing.T) {
	r, n := newTestRouter(t)
	id := registerUser(t, r, n, "ana@example.com")

	t.Run("validate wrong password", func(t *testing.T) {
		rec := do(t, r, "POST", "/users/management/password/validate", map[string]any{
			"userId": id, "currentPassword": "Errada123",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Senha atual incorreta.", decodeBody(t, rec)["message"])
	})

	t.Run("validate correct password", func(t *testing.T) {
		rec := do(t, r, "POST", "/users/management/password/validate", map[string]any{
			"userId": id, "currentPassword": "Segura123",
		})
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("weak new password", func(t *testing.T) {
		rec := do(t, r, "PUT", "/users/management/password", map[string]any{
			"userId": id, "currentPassword": "Segura123", "newPassword": "fraca",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("change and login with new password", func(t *testing.T) {
		rec := do(t, r, "PUT", "/users/management/password", map[string]any{
			"userId": id, "currentPassword": "Segura123", "newPassword": "Nova1234",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = do(t, r, "POST", "/users/login", map[string]any{
			"email": "ana@example.com", "senha": "Nova1234",
		})
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestEmailChangeFlow(t *testing.T) {
	r, n := newTestRouter(t)
	id := registerUser(t, r, n, "ana@example.com")

	rec := do(t, r, "POST", "/users/management/email/request-code", map[string]any{
		"userId": id, "newEmail": "novo@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sent := n.last(t)
	require.Equal(t, "novo@example.com", sent.Email)

	t.Run("mismatched address", func(t *testing.T) {
		rec := do(t, r, "PUT", "/users/management/email/verify-change", map[string]any{
			"userId": id, "newEmail": "errado@example.com", "code": sent.Code,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("correct code changes the email", func(t *testing.T) {
		rec := do(t, r, "PUT", "/users/management/email/verify-change", map[string]any{
			"userId": id, "newEmail": "novo@example.com", "code": sent.Code,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decodeBody(t, rec)
		require.Equal(t, "novo@example.com", body["newEmail"])

		rec = do(t, r, "POST", "/users/login", map[string]any{
			"email": "novo@example.com", "senha": "Segura123",
		})
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCardsCRUD(t *testing.T) {
	r, n := newTestRouter(t)
	id := registerUser(t, r, n, "ana@example.com")

	var cardID int64

	t.Run("create", func(t *testing.T) {
		rec := do(t, r, "POST", "/cards", map[string]any{
			"userId": id, "nome_banco": "Nubank", "nome_identificacao": "Roxinho", "limite_total": 2500,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		body := decodeBody(t, rec)
		require.Equal(t, "Cartão cadastrado com sucesso!", body["message"])
		require.Equal(t, "Roxinho", body["nome"])
		cardID = int64(body["cardId"].(float64))
	})

	t.Run("duplicate label", func(t *testing.T) {
		rec := do(t, r, "POST", "/cards", map[string]any{
			"userId": id, "nome_banco": "Itau", "nome_identificacao": "Roxinho", "limite_total": 100,
		})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := do(t, r, "POST", "/cards", map[string]any{
			"userId": id, "nome_banco": "Itau",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get", func(t *testing.T) {
		rec := do(t, r, "GET", fmt.Sprintf("/cards/%d?userId=%d", cardID, id), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, "Nubank", body["nome_banco"])
		require.Equal(t, 2500.0, body["limite_total"])
		require.NotContains(t, body, "user_id")
	})

	t.Run("update", func(t *testing.T) {
		rec := do(t, r, "PUT", fmt.Sprintf("/cards/%d", cardID), map[string]any{
			"userId": id, "nome_banco": "Itau", "nome_identificacao": "Azul", "limite_total": 5000,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("list", func(t *testing.T) {
		rec := do(t, r, "GET", fmt.Sprintf("/cards?userId=%d", id), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var cards []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cards))
		require.Len(t, cards, 1)
		require.Equal(t, "Azul", cards[0]["nome_identificacao"])
	})

	t.Run("another user cannot touch the card", func(t *testing.T) {
		otherID := registerUser(t, r, n, "bia@example.com")

		rec := do(t, r, "DELETE", fmt.Sprintf("/cards/%d?userId=%d", cardID, otherID), nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete hides the card from the list", func(t *testing.T) {
		rec := do(t, r, "DELETE", fmt.Sprintf("/cards/%d?userId=%d", cardID, id), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = do(t, r, "GET", fmt.Sprintf("/cards?userId=%d", id), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var cards []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cards))
		require.Empty(t, cards)

		// Deleting again reports 404.
		rec = do(t, r, "DELETE", fmt.Sprintf("/cards/%d?userId=%d", cardID, id), nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, "GET", "/livez", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeBody(t, rec)["status"])

	rec = do(t, r, "GET", "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "ok", body["status"])
}

func TestUsersListOmitsPasswords(t *testing.T) {
	r, n := newTestRouter(t)
	registerUser(t, r, n, "ana@example.com")

	rec := do(t, r, "GET", "/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	require.Equal(t, "ana@example.com", users[0]["email"])
	require.NotContains(t, users[0], "senha")
}

// countingStore wraps a Store so tests can observe how often a request hits
// the users table.
type countingStore struct {
	store.Store
	users *countingUsers
}

func (s *countingStore) Users() store.Users { return s.users }

type countingUsers struct {
	store.Users
	idLookups atomic.Int64
}

func (u *countingUsers) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	u.idLookups.Add(1)
	return u.Users.GetUserByID(ctx, id)
}

func TestGuardedRequestLoadsUserOnce(t *testing.T) {
	inner, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = inner.Close() })
	require.NoError(t, inner.ApplyMigrations())

	st := &countingStore{Store: inner, users: &countingUsers{Users: inner.Users()}}

	lg := ledger.NewMemory()
	notifier := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	creds := service.PlainCredentials{}
	ttl := 15 * time.Minute

	r := NewRouter(identity.NewPayloadProvider(), "test", "", st, logger)
	r.RegistrationService = service.NewRegistrationService(st, lg, notifier, creds, ttl, logger)
	r.EmailChangeService = service.NewEmailChangeService(st, lg, notifier, ttl, logger)
	r.LoginService = service.NewLoginService(st, creds, nil, 0, logger)
	r.ProfileService = service.NewProfileService(st, creds, logger)
	r.CardService = service.NewCardService(st, logger)
	r.ApplyRoutes()

	id := registerUser(t, r, notifier, "ana@example.com")

	// The session middleware loads the snapshot; the handler and service
	// must reuse it rather than fetch the row again.
	st.users.idLookups.Store(0)
	rec := do(t, r, "PUT", "/users/management/name", map[string]any{
		"userId":  id,
		"newName": "Ana Clara",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.EqualValues(t, 1, st.users.idLookups.Load())

	st.users.idLookups.Store(0)
	rec = do(t, r, "POST", "/users/management/password/validate", map[string]any{
		"userId":          id,
		"currentPassword": "Segura123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.EqualValues(t, 1, st.users.idLookups.Load())
}
