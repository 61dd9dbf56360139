package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/straye-as/portfolio-api/docs"
	"github.com/straye-as/portfolio-api/internal/auth"
	"github.com/straye-as/portfolio-api/internal/config"
	"github.com/straye-as/portfolio-api/internal/database"
	"github.com/straye-as/portfolio-api/internal/datawarehouse"
	"github.com/straye-as/portfolio-api/internal/http/handler"
	"github.com/straye-as/portfolio-api/internal/http/middleware"
	"github.com/straye-as/portfolio-api/internal/http/router"
	"github.com/straye-as/portfolio-api/internal/jobs"
	"github.com/straye-as/portfolio-api/internal/logger"
	"github.com/straye-as/portfolio-api/internal/notify"
	"github.com/straye-as/portfolio-api/internal/repository"
	"github.com/straye-as/portfolio-api/internal/service"
	"github.com/straye-as/portfolio-api/internal/storage"
	"go.uber.org/zap"
)

// @title Portfolio API
// @version 1.0
// @description Facilities portfolio API for locations, projects, staffing and reporting

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)

	// In staging/production secrets come from Azure Key Vault, elsewhere from the environment
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connected", zap.String("driver", db.Dialector.Name()))

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(db); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
		log.Info("Database schema ensured")
	}
	if cfg.Database.SeedOnStart {
		seeded, err := database.SeedIfEmpty(db)
		if err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
		log.Info("Seed step finished", zap.Bool("seeded", seeded))
	}

	fileStorage, err := storage.NewStorage(ctx, &cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	mailer, err := notify.NewMailer(ctx, &cfg.Email, log)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	// The warehouse is optional and read-only; the app continues without it
	var dwClient *datawarehouse.Client
	if cfg.DataWarehouse.Enabled {
		dwClient, err = datawarehouse.NewClient(&cfg.DataWarehouse, log)
		if err != nil {
			log.Warn("Data warehouse connection failed, continuing without it", zap.Error(err))
			dwClient = nil
		}
	}

	tokens, err := auth.NewTokenManager(&cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}

	// Repositories
	locationRepo := repository.NewLocationRepository(db)
	contactRepo := repository.NewContactRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	personRepo := repository.NewPersonRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	preferenceRepo := repository.NewNotificationPreferenceRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	metricNoteRepo := repository.NewMetricNoteRepository(db)

	// Activity is recorded asynchronously; status changes also fan out as alerts
	recorder := service.NewActivityRecorder(activityRepo, cfg.Activity.QueueSize, log)
	alertService := service.NewAlertService(userRepo, preferenceRepo, notificationRepo, assignmentRepo, dashboardRepo, log)
	recorder.AddListener(alertService.OnActivity)

	locationService := service.NewLocationService(locationRepo, recorder, log)
	contactService := service.NewContactService(contactRepo, locationRepo, log)
	projectService := service.NewProjectService(projectRepo, locationRepo, recorder, log)
	personService := service.NewPersonService(personRepo, log)
	assignmentService := service.NewAssignmentService(assignmentRepo, personRepo, locationRepo, recorder, log)
	reportService := service.NewReportService(reportRepo, locationRepo, personRepo, recorder, log)
	activityService := service.NewActivityService(activityRepo, log)
	workloadService := service.NewWorkloadService(personRepo, assignmentRepo, log)
	authService := service.NewAuthService(userRepo, tokens, log)
	notificationService := service.NewNotificationService(notificationRepo, preferenceRepo, log)
	dashboardService := service.NewDashboardService(dashboardRepo, locationRepo, projectRepo, assignmentRepo, log)
	exportService := service.NewExportService(projectRepo, personRepo, assignmentRepo, fileStorage, log)
	digestService := service.NewDigestService(userRepo, preferenceRepo, notificationRepo, mailer, log)
	insightService := service.NewInsightService(insightProvider(cfg, dwClient, log), metricNoteRepo, locationRepo, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(tokens, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(cfg, log, db, authMiddleware, rateLimiter, router.Handlers{
		Location:     handler.NewLocationHandler(locationService, log),
		Contact:      handler.NewContactHandler(contactService, log),
		Project:      handler.NewProjectHandler(projectService, log),
		Person:       handler.NewPersonHandler(personService, workloadService, log),
		Assignment:   handler.NewAssignmentHandler(assignmentService, log),
		Report:       handler.NewReportHandler(reportService, log),
		Activity:     handler.NewActivityHandler(activityService, log),
		Auth:         handler.NewAuthHandler(authService, log),
		Notification: handler.NewNotificationHandler(notificationService, log),
		Dashboard:    handler.NewDashboardHandler(dashboardService, log),
		Export:       handler.NewExportHandler(exportService, log),
		Insight:      handler.NewInsightHandler(insightService, log),
	})
	if dwClient != nil {
		rt.WithWarehouse(dwClient)
	}

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log, cfg.Jobs.TimeoutDuration())
		runners := jobs.Runners{
			Alerts:   alertService,
			Digest:   digestService,
			Snapshot: exportService,
		}
		if err := jobs.RegisterPortfolioJobs(scheduler, runners, &cfg.Jobs, log); err != nil {
			return fmt.Errorf("failed to register jobs: %w", err)
		}
		scheduler.Start()
		log.Info("Scheduler started", zap.Strings("jobs", scheduler.GetJobNames()))
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      http.TimeoutHandler(rt.Setup(), cfg.Server.RequestTimeoutDuration(), `{"error":"Request timed out"}`),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Drain queued activity after the last request has finished
		recorder.Close()

		if dwClient != nil {
			if err := dwClient.Close(); err != nil {
				log.Warn("Error closing data warehouse connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

// insightProvider picks the warehouse-backed provider when configured and reachable
func insightProvider(cfg *config.Config, dwClient *datawarehouse.Client, log *zap.Logger) service.InsightProvider {
	static := service.NewStaticInsightProvider()
	if cfg.Insights.Provider != "warehouse" {
		return static
	}
	if dwClient == nil || !dwClient.IsEnabled() {
		log.Warn("Warehouse insight provider requested but the data warehouse is unavailable, using static insights")
		return static
	}

	log.Info("Using warehouse insight provider",
		zap.String("insights_table", cfg.Insights.InsightsTable),
		zap.String("overview_table", cfg.Insights.OverviewTable),
	)
	return service.NewWarehouseInsightProvider(dwClient, static, cfg.Insights.InsightsTable, cfg.Insights.OverviewTable, log)
}
