package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/straye-as/portfolio-api/internal/auth"
	"github.com/straye-as/portfolio-api/internal/config"
	"github.com/straye-as/portfolio-api/internal/database"
	"github.com/straye-as/portfolio-api/internal/datawarehouse"
	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/http/handler"
	"github.com/straye-as/portfolio-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/straye-as/portfolio-api/docs" // Import generated swagger docs
)

// Handlers groups the resource handlers mounted under /api
type Handlers struct {
	Location     *handler.LocationHandler
	Contact      *handler.ContactHandler
	Project      *handler.ProjectHandler
	Person       *handler.PersonHandler
	Assignment   *handler.AssignmentHandler
	Report       *handler.ReportHandler
	Activity     *handler.ActivityHandler
	Auth         *handler.AuthHandler
	Notification *handler.NotificationHandler
	Dashboard    *handler.DashboardHandler
	Export       *handler.ExportHandler
	Insight      *handler.InsightHandler
}

// WarehouseChecker reports data warehouse connectivity for readiness
type WarehouseChecker interface {
	HealthCheck(ctx context.Context) *datawarehouse.HealthStatus
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	warehouse      WarehouseChecker
	h              Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		h:              handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	if rt.cfg.Metrics.Enabled {
		r.Use(middleware.Metrics)
	}

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Database health check with pool statistics
	r.Get("/health/db", rt.databaseHealth)

	// Combined readiness check
	r.Get("/health/ready", rt.readiness)

	if rt.cfg.Metrics.Enabled {
		r.Handle(rt.cfg.Metrics.Path, promhttp.Handler())
	}

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, domain.ErrorResponse{Error: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, domain.ErrorResponse{Error: "Method not allowed"})
	})

	r.Route("/api", rt.apiRoutes)

	return r
}

func (rt *Router) apiRoutes(r chi.Router) {
	// Identity is attached whenever a valid token is sent, so the activity log
	// can name the actor, and the limiter can key by user
	r.Use(rt.authMiddleware.OptionalAuthenticate)
	r.Use(rt.rateLimiter.Limit)

	h := rt.h

	r.Post("/auth/login", h.Auth.Login)

	r.Route("/locations", func(r chi.Router) {
		r.Get("/", h.Location.List)
		r.Post("/", h.Location.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Location.GetByID)
			r.Put("/", h.Location.Update)
			r.With(
				rt.authMiddleware.Authenticate,
				rt.authMiddleware.RequireRole(domain.RoleAdmin, domain.RoleManager),
			).Delete("/", h.Location.Delete)

			r.Get("/pocs", h.Contact.ListByLocation)
			r.Post("/pocs", h.Contact.Create)
			r.Get("/projects", h.Project.ListByLocation)
			r.Post("/projects", h.Project.Create)
			r.Get("/assignments", h.Assignment.ListByLocation)
			r.Get("/ai-analysis", h.Insight.LocationAnalysis)
		})
	})

	r.Put("/pocs/{id}", h.Contact.Update)
	r.Delete("/pocs/{id}", h.Contact.Delete)

	r.Route("/projects/{id}", func(r chi.Router) {
		r.Get("/", h.Project.GetByID)
		r.Put("/", h.Project.Update)
		r.Delete("/", h.Project.Delete)
	})

	r.Route("/people", func(r chi.Router) {
		r.Get("/", h.Person.List)
		r.Post("/", h.Person.Create)
		r.Get("/workload/summary", h.Person.WorkloadSummary)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Person.GetByID)
			r.Put("/", h.Person.Update)
			r.Delete("/", h.Person.Delete)
			r.Get("/assignments", h.Assignment.ListByPerson)
		})
	})

	r.Route("/assignments", func(r chi.Router) {
		r.Get("/", h.Assignment.List)
		r.Post("/", h.Assignment.Create)
		r.Put("/{id}", h.Assignment.Update)
		r.Delete("/{id}", h.Assignment.Delete)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/", h.Report.List)
		r.Post("/", h.Report.Create)
		r.Get("/{id}", h.Report.GetByID)
		r.Delete("/{id}", h.Report.Delete)
	})

	r.Get("/activity", h.Activity.List)

	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/summary", h.Dashboard.Summary)
		r.Get("/projects-by-location", h.Dashboard.ProjectsByLocation)
		r.Get("/people-by-location", h.Dashboard.PeopleByLocation)
		r.Get("/heatmap", h.Dashboard.Heatmap)

		r.Route("/chart", func(r chi.Router) {
			r.Get("/budget-by-location", h.Dashboard.BudgetByLocation)
			r.Get("/status-distribution", h.Dashboard.StatusDistribution)
			r.Get("/phase-distribution", h.Dashboard.PhaseDistribution)
			r.Get("/staffing-by-location", h.Dashboard.StaffingByLocation)
		})
	})

	r.Route("/export", func(r chi.Router) {
		r.Get("/projects-csv", h.Export.ProjectsCSV)
		r.Get("/people-csv", h.Export.PeopleCSV)
		r.Get("/projects-xlsx", h.Export.ProjectsXLSX)
		r.With(
			rt.authMiddleware.Authenticate,
			rt.authMiddleware.RequireRole(domain.RoleAdmin),
		).Post("/snapshots", h.Export.Snapshot)
	})

	r.Route("/ai", func(r chi.Router) {
		r.Get("/program-overview", h.Insight.ProgramOverview)
		r.Get("/metrics", h.Insight.Metrics)
		r.Post("/metrics", h.Insight.SubmitMetricNote)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(rt.authMiddleware.Authenticate)

		r.Get("/auth/me", h.Auth.Me)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.Notification.List)
			r.Get("/unread-count", h.Notification.UnreadCount)
			r.Put("/read-all", h.Notification.MarkAllAsRead)
			r.Put("/{id}/read", h.Notification.MarkAsRead)
		})

		r.Get("/notification-preferences", h.Notification.GetPreferences)
		r.Put("/notification-preferences", h.Notification.SetPreferences)
	})
}

func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := database.HealthCheckWithStats(r.Context(), rt.db)
	if err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats":   stats,
	})
}

// WithWarehouse adds the data warehouse to the readiness checks
func (rt *Router) WithWarehouse(checker WarehouseChecker) *Router {
	rt.warehouse = checker
	return rt
}

// readiness fails only on the database. Insights fall back to static content, so a
// warehouse outage marks the service degraded but still ready.
func (rt *Router) readiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]interface{})
	status := http.StatusOK
	overall := "healthy"

	if err := database.HealthCheck(r.Context(), rt.db); err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		checks["database"] = map[string]string{"status": "unhealthy", "error": err.Error()}
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	} else {
		checks["database"] = map[string]string{"status": "healthy"}
	}

	if rt.warehouse != nil {
		dw := rt.warehouse.HealthCheck(r.Context())
		checks["data_warehouse"] = dw
		if dw.Status == "unhealthy" && overall == "healthy" {
			overall = "degraded"
		}
	}

	writeJSON(w, status, map[string]interface{}{
		"status": overall,
		"checks": checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
