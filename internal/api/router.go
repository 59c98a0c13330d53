// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"customer-portal/internal/api/handler"
	apimw "customer-portal/internal/api/middleware"
	"customer-portal/internal/api/types"
	"customer-portal/internal/domain"
)

// Options configures the cross-cutting behaviour of the router.
type Options struct {
	AllowedOrigins      []string
	RateLimitPerMinute  int
	RequireStaffSession bool
	TrustedProxies      []netip.Prefix // peers whose forwarding headers are honoured
}

// Handlers groups the request handlers mounted by NewRouter.
type Handlers struct {
	Auth        *handler.AuthHandler
	Payments    *handler.PaymentHandler
	SessionAuth *apimw.SessionAuth
}

// NewRouter sets up and returns a new HTTP router. Every route is served both
// at the root and under /api.
func NewRouter(h Handlers, opts Options, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(apimw.RealIP(opts.TrustedProxies))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))
	r.Use(apimw.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.RateLimitPerMinute > 0 {
		r.Use(httprate.Limit(opts.RateLimitPerMinute, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				handler.RespondWithJSON(w, logger, http.StatusTooManyRequests, types.ErrorResponse{Message: "Too many requests"})
			}),
		))
	}

	routes := func(r chi.Router) {
		r.Get("/health", handler.Health(logger))
		r.Get("/validation/schema", handler.ValidationSchema(logger))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(h.SessionAuth.RequireSession)
				r.Post("/create", h.Payments.Create)
				r.Get("/my/{userId}", h.Payments.ListMine)
			})

			// Staff routes. Unguarded unless staff sessions are required.
			r.Group(func(r chi.Router) {
				if opts.RequireStaffSession {
					r.Use(h.SessionAuth.RequireSession)
					r.Use(apimw.RequireRole(logger, domain.RoleStaff))
				}
				r.Get("/pending", h.Payments.ListPending)
				r.Post("/verify/{id}", h.Payments.Verify)
			})
		})
	}

	r.Group(routes)
	r.Route("/api", routes)

	return r
}
