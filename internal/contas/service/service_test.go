package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/controlefin/contas/internal/contas/domain"
	"github.com/controlefin/contas/internal/contas/ledger"
	"github.com/controlefin/contas/internal/contas/store"
	"github.com/controlefin/contas/internal/contas/store/drivers/sqlite"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// captureNotifier records sent codes and can be told to fail.
type captureNotifier struct {
	mu    sync.Mutex
	sent  []sentCode
	fail  bool
	cause error
}

type sentCode struct {
	Email string
	Code  string
}

func (n *captureNotifier) SendVerificationCode(_ context.Context, email, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.fail {
		if n.cause != nil {
			return n.cause
		}
		return errors.New("smtp relay unavailable")
	}
	n.sent = append(n.sent, sentCode{Email: email, Code: code})
	return nil
}

func (n *captureNotifier) last(t *testing.T) sentCode {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent)
	return n.sent[len(n.sent)-1]
}

type fixture struct {
	store    store.Store
	ledger   *ledger.Memory
	notifier *captureNotifier

	registration *RegistrationService
	emailChange  *EmailChangeService
	login        *LoginService
	profile      *ProfileService
	cards        *CardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := newTestStore(t)
	lg := ledger.NewMemory()
	n := &captureNotifier{}
	logger := testLogger()
	creds := PlainCredentials{}
	ttl := 15 * time.Minute

	return &fixture{
		store:        st,
		ledger:       lg,
		notifier:     n,
		registration: NewRegistrationService(st, lg, n, creds, ttl, logger),
		emailChange:  NewEmailChangeService(st, lg, n, ttl, logger),
		login:        NewLoginService(st, creds, nil, 0, logger),
		profile:      NewProfileService(st, creds, logger),
		cards:        NewCardService(st, logger),
	}
}

func testUser(email, password string) domain.User {
	return domain.User{
		Name:     "Ana Souza",
		Email:    email,
		Password: password,
		Kind:     domain.AccountStandard,
		Status:   domain.StatusActive,
	}
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Name:      "Ana Souza",
		Email:     "ana@example.com",
		Password:  "Segura123",
		BirthDate: "1995-04-12",
		CPF:       "529.982.247-25",
	}
}

// user loads a committed snapshot the way the session middleware would
// before handing it to a guarded operation.
func (f *fixture) user(t *testing.T, id int64) domain.User {
	t.Helper()
	u, err := f.store.Users().GetUserByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

// register runs the full two-step signup and returns the committed user id.
func (f *fixture) register(t *testing.T, in RegisterInput) int64 {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, f.registration.RequestCode(ctx, in))
	code := f.notifier.last(t).Code

	user, err := f.registration.VerifyRegister(ctx, in.Email, code)
	require.NoError(t, err)
	return user.ID
}
