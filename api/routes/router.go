package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jasperlim/tracelink-backend/api/controllers"
	"github.com/jasperlim/tracelink-backend/api/middleware"
	"github.com/jasperlim/tracelink-backend/internal/auth"
	"github.com/jasperlim/tracelink-backend/internal/movements"
	"github.com/jasperlim/tracelink-backend/internal/receiving"
	"github.com/jasperlim/tracelink-backend/pkg/auth/session"
	"github.com/jasperlim/tracelink-backend/pkg/config"
	"github.com/jasperlim/tracelink-backend/pkg/db"
	"github.com/jasperlim/tracelink-backend/pkg/enums"
	"github.com/jasperlim/tracelink-backend/pkg/logger"
	"github.com/jasperlim/tracelink-backend/pkg/redis"
)

// Deps collects everything the HTTP surface needs.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               db.Pinger
	Redis            *redis.Client
	SessionChecker   session.AccessSessionChecker
	AuthService      auth.Service
	ReceivingService *receiving.Service
	StatusService    *receiving.StatusService
	ExportService    *movements.ExportService
	MetricsGatherer  prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
	})

	r.Route("/api/warehouse", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.RequireAnyRole(logg, enums.UserRoleWarehouseStaff.String(), enums.UserRoleAdmin.String()))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Post("/receive-master", controllers.WarehouseReceiveMaster(deps.ReceivingService, logg))
		r.Get("/receiving-status", controllers.WarehouseReceivingStatus(deps.StatusService, logg))
		r.Get("/movements/export", controllers.WarehouseMovementsExport(deps.ExportService, logg))
	})

	return r
}
