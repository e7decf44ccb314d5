package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	audithttp "github.com/huertohogar/huertohogar/internal/audit/http"
	"github.com/huertohogar/huertohogar/internal/auth"
	"github.com/huertohogar/huertohogar/internal/cities"
	"github.com/huertohogar/huertohogar/internal/observability"
	"github.com/huertohogar/huertohogar/internal/orders"
	"github.com/huertohogar/huertohogar/internal/regions"
	"github.com/huertohogar/huertohogar/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthHandler    *auth.Handler
	UsersHandler   *users.Handler
	RegionsHandler *regions.Handler
	CitiesHandler  *cities.Handler
	OrdersHandler  *orders.Handler
	AuditHandler   *audithttp.Handler
	Pool           *pgxpool.Pool
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/public/users", params.UsersHandler.MountPublicRoutes)
		r.Route("/regions", params.RegionsHandler.MountRoutes)
		r.Route("/cities", params.CitiesHandler.MountRoutes)
		r.Route("/orders", params.OrdersHandler.MountRoutes)
		r.Route("/audit", params.AuditHandler.MountRoutes)
	})

	return r
}
