package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/service"
	"github.com/Traam0/nextJs-jswt-dbSession/internal/auth/store"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/httpx"
	"github.com/Traam0/nextJs-jswt-dbSession/pkg/slogx"

	_ "github.com/Traam0/nextJs-jswt-dbSession/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	cookies      CookieConfig

	store        store.Store
	LoginService *service.LoginService
	GateService  *service.GateService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	cookies CookieConfig,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		cookies:      cookies,
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			JWT Session Authentication API
//	@version		0.1.0
//	@description	Cookie-based JWT authentication with database-backed refresh sessions.
//	@description
//	@description				Access tokens are short-lived and renewed transparently against the stored
//	@description				session while the embedded refresh token is still valid. Each login replaces
//	@description				the user's previous session, so one browser stays signed in per account.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}". Browsers send the same token via the access cookie instead.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	gate := GateMiddleware(r.GateService, r.cookies)

	// POST /login - strict rate limit by IP (authentication attempts)
	loginHandler := &LoginHandler{LoginService: r.LoginService, Cookies: r.cookies}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /register - strict rate limit by IP (public signup endpoint)
	registerHandler := &RegisterHandler{LoginService: r.LoginService, Cookies: r.cookies}
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /logout - behind the gate, moderate rate limit
	logoutHandler := &LogoutHandler{LoginService: r.LoginService, Cookies: r.cookies}
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(logoutHandler,
			gate,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /me - behind the gate, lenient rate limit
	meHandler := &MeHandler{Store: r.store}
	r.Mux.Handle("GET /v1/auth/me",
		httpx.Chain(meHandler,
			gate,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
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
