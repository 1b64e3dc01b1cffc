package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/controlefin/contas/internal/contas/identity"
	"github.com/controlefin/contas/internal/contas/service"
	"github.com/controlefin/contas/internal/contas/store"
	"github.com/controlefin/contas/pkg/httpx"
	"github.com/controlefin/contas/pkg/slogx"

	_ "github.com/controlefin/contas/api/contas" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	identity     identity.Provider
	buildVersion string
	startTime    time.Time
	frontendDir  string
	logger       *slog.Logger

	store               store.Store
	RegistrationService *service.RegistrationService
	EmailChangeService  *service.EmailChangeService
	LoginService        *service.LoginService
	ProfileService      *service.ProfileService
	CardService         *service.CardService
}

func NewRouter(
	provider identity.Provider,
	buildVersion, frontendDir string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		identity:     provider,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		frontendDir:  frontendDir,
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerManagement()
	r.registerCards()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	if r.frontendDir != "" {
		r.Mux.Handle("/", http.FileServer(http.Dir(r.frontendDir)))
	}
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Controle Financeiro API
//	@version		0.1.0
//	@description	Personal finance account service: two-step verified registration, login, profile management and credit card tracking.
//	@description
//	@description	Mutating endpoints identify the acting user by the userId field of the request body; reads use the userId query parameter. Token identity is available as an opt-in deployment mode.
//
//	@host		localhost:3000
//	@BasePath	/
//
//	@schemes	http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	registerHandler := &RegisterHandler{RegistrationService: r.RegistrationService}
	loginHandler := &LoginHandler{LoginService: r.LoginService}

	// Code-issuing and credential endpoints get the strict limit to slow
	// down mailbox flooding and password guessing.
	r.Mux.Handle("POST /users/send-code",
		httpx.Chain(http.HandlerFunc(registerHandler.HandleSendCode),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /users/verify-register",
		httpx.Chain(http.HandlerFunc(registerHandler.HandleVerifyRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /users/login",
		httpx.Chain(http.HandlerFunc(loginHandler.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Development listing, no session required.
	r.Mux.Handle("GET /users",
		httpx.Chain(http.HandlerFunc(loginHandler.HandleList),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerManagement() {
	h := &ManagementHandler{
		ProfileService:     r.ProfileService,
		EmailChangeService: r.EmailChangeService,
	}
	session := SessionMiddleware(r.identity, r.store)

	r.Mux.Handle("PUT /users/management/name",
		httpx.Chain(http.HandlerFunc(h.HandleUpdateName),
			session,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /users/management/password/validate",
		httpx.Chain(http.HandlerFunc(h.HandleValidatePassword),
			session,
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("PUT /users/management/password",
		httpx.Chain(http.HandlerFunc(h.HandleUpdatePassword),
			session,
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /users/management/email/request-code",
		httpx.Chain(http.HandlerFunc(h.HandleRequestEmailChange),
			session,
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("PUT /users/management/email/verify-change",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyEmailChange),
			session,
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerCards() {
	h := &CardsHandler{CardService: r.CardService}
	session := SessionMiddleware(r.identity, r.store)

	r.Mux.Handle("POST /cards",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			session,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /cards",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			session,
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /cards/{cardId}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			session,
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PUT /cards/{cardId}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			session,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /cards/{cardId}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			session,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
