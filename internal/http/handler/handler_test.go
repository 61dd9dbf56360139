package handler_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/straye-as/portfolio-api/internal/auth"
	"github.com/straye-as/portfolio-api/internal/config"
	"github.com/straye-as/portfolio-api/internal/datawarehouse"
	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/http/handler"
	"github.com/straye-as/portfolio-api/internal/http/middleware"
	"github.com/straye-as/portfolio-api/internal/http/router"
	"github.com/straye-as/portfolio-api/internal/repository"
	"github.com/straye-as/portfolio-api/internal/service"
	"github.com/straye-as/portfolio-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testAPI struct {
	t        *testing.T
	db       *gorm.DB
	handler  http.Handler
	router   *router.Router
	recorder *service.ActivityRecorder
	tokens   *auth.TokenManager
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()

	db := testutil.SetupTestDB(t)
	log := zap.NewNop()

	cfg := &config.Config{
		App:       config.AppConfig{Name: "portfolio-api", Environment: "development"},
		Auth:      config.AuthConfig{JWTSecret: "test-secret", TokenTTLHours: 1, Issuer: "portfolio-api"},
		RateLimit: config.RateLimitConfig{Enabled: false},
	}

	tokens, err := auth.NewTokenManager(&cfg.Auth)
	require.NoError(t, err)

	locationRepo := repository.NewLocationRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	personRepo := repository.NewPersonRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	preferenceRepo := repository.NewNotificationPreferenceRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	recorder := service.NewActivityRecorder(activityRepo, 64, log)
	t.Cleanup(recorder.Close)

	insightService := service.NewInsightService(
		service.NewStaticInsightProvider(),
		repository.NewMetricNoteRepository(db),
		locationRepo,
		log,
	)

	rt := router.NewRouter(cfg, log, db, auth.NewMiddleware(tokens, log), middleware.NewRateLimiter(&cfg.RateLimit, log), router.Handlers{
		Location:     handler.NewLocationHandler(service.NewLocationService(locationRepo, recorder, log), log),
		Contact:      handler.NewContactHandler(service.NewContactService(repository.NewContactRepository(db), locationRepo, log), log),
		Project:      handler.NewProjectHandler(service.NewProjectService(projectRepo, locationRepo, recorder, log), log),
		Person:       handler.NewPersonHandler(service.NewPersonService(personRepo, log), service.NewWorkloadService(personRepo, assignmentRepo, log), log),
		Assignment:   handler.NewAssignmentHandler(service.NewAssignmentService(assignmentRepo, personRepo, locationRepo, recorder, log), log),
		Report:       handler.NewReportHandler(service.NewReportService(repository.NewReportRepository(db), locationRepo, personRepo, recorder, log), log),
		Activity:     handler.NewActivityHandler(service.NewActivityService(activityRepo, log), log),
		Auth:         handler.NewAuthHandler(service.NewAuthService(userRepo, tokens, log), log),
		Notification: handler.NewNotificationHandler(service.NewNotificationService(notificationRepo, preferenceRepo, log), log),
		Dashboard:    handler.NewDashboardHandler(service.NewDashboardService(dashboardRepo, locationRepo, projectRepo, assignmentRepo, log), log),
		Export:       handler.NewExportHandler(service.NewExportService(projectRepo, personRepo, assignmentRepo, nil, log), log),
		Insight:      handler.NewInsightHandler(insightService, log),
	})

	return &testAPI{
		t:        t,
		db:       db,
		handler:  rt.Setup(),
		router:   rt,
		recorder: recorder,
		tokens:   tokens,
	}
}

func (a *testAPI) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) tokenFor(user *domain.User) string {
	a.t.Helper()
	token, _, err := a.tokens.Issue(user)
	require.NoError(a.t, err)
	return token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestLocationProjectLifecycle(t *testing.T) {
	api := setupAPI(t)
	admin := testutil.CreateTestUser(t, api.db, "admin", domain.RoleAdmin)
	token := api.tokenFor(admin)

	rec := api.do(http.MethodPost, "/api/locations", map[string]interface{}{
		"name": "Site A", "description": "North campus", "lat": 59.9, "lng": 10.7,
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	location := decode[domain.LocationDTO](t, rec)
	assert.Equal(t, "Site A", location.Name)

	rec = api.do(http.MethodPost, fmt.Sprintf("/api/locations/%d/projects", location.ID), map[string]interface{}{
		"name": "Roof replacement", "budget_planned": 1000,
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	project := decode[domain.ProjectDTO](t, rec)
	assert.Equal(t, domain.ProjectStatusOnTrack, project.Status)
	assert.Equal(t, domain.ProjectPhasePlanning, project.Phase)
	assert.Equal(t, location.ID, project.LocationID)

	rec = api.do(http.MethodPut, fmt.Sprintf("/api/projects/%d", project.ID), map[string]interface{}{
		"name": "Roof replacement", "status": "behind", "budget_planned": 1000,
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.ProjectStatusBehind, decode[domain.ProjectDTO](t, rec).Status)

	api.recorder.Flush()

	rec = api.do(http.MethodGet, "/api/activity?entity_type=project", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]domain.ActivityLogEntryDTO](t, rec)

	statusChanges := 0
	for _, entry := range entries {
		if entry.Action == domain.ActionStatusChanged {
			statusChanges++
			assert.Equal(t, project.ID, entry.EntityID)
			assert.Equal(t, admin.Name, entry.UserName)
		}
	}
	assert.Equal(t, 1, statusChanges)

	rec = api.do(http.MethodDelete, fmt.Sprintf("/api/locations/%d", location.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Location deleted", decode[domain.MessageResponse](t, rec).Message)

	rec = api.do(http.MethodGet, fmt.Sprintf("/api/locations/%d/projects", location.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]domain.ProjectDTO](t, rec))

	rec = api.do(http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWorkloadAndOvercommit(t *testing.T) {
	api := setupAPI(t)

	rec := api.do(http.MethodPost, "/api/people", map[string]interface{}{
		"name": "Dana Field", "email": "dana@example.com", "organization": "Facilities",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	person := decode[domain.PersonDTO](t, rec)

	siteA := testutil.CreateTestLocation(t, api.db, "Site A")
	siteB := testutil.CreateTestLocation(t, api.db, "Site B")

	for _, assignment := range []struct {
		locationID int64
		pct        int
	}{{siteA.ID, 100}, {siteB.ID, 50}} {
		rec = api.do(http.MethodPost, "/api/assignments", map[string]interface{}{
			"person_id": person.ID, "location_id": assignment.locationID, "allocation_pct": assignment.pct,
		}, "")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = api.do(http.MethodGet, "/api/people/workload/summary", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	workloads := decode[[]domain.WorkloadDTO](t, rec)
	require.Len(t, workloads, 1)
	assert.Equal(t, 150, workloads[0].TotalAllocation)
	assert.True(t, workloads[0].Overcommitted)
	assert.Len(t, workloads[0].Assignments, 2)

	rec = api.do(http.MethodGet, "/api/dashboard/summary", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[domain.DashboardSummaryDTO](t, rec)
	assert.Equal(t, int64(1), summary.OvercommittedCount)
	assert.Equal(t, int64(2), summary.TotalLocations)
	assert.Equal(t, int64(1), summary.TotalPeople)
}

func TestAuthEndpoints(t *testing.T) {
	api := setupAPI(t)
	user := testutil.CreateTestUser(t, api.db, "viewer", domain.RoleViewer)

	t.Run("login succeeds", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/auth/login", map[string]string{
			"username": "viewer", "password": testutil.TestPassword,
		}, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decode[domain.LoginResponse](t, rec)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, user.ID, resp.User.ID)
		assert.Equal(t, domain.RoleViewer, resp.User.Role)

		rec = api.do(http.MethodGet, "/api/auth/me", nil, resp.Token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "viewer", decode[domain.UserDTO](t, rec).Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/auth/login", map[string]string{
			"username": "viewer", "password": "nope",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decode[domain.ErrorResponse](t, rec).Error)
	})

	t.Run("me without token", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/auth/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("viewer cannot delete location", func(t *testing.T) {
		location := testutil.CreateTestLocation(t, api.db, "Guarded")
		rec := api.do(http.MethodDelete, fmt.Sprintf("/api/locations/%d", location.ID), nil, api.tokenFor(user))
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = api.do(http.MethodDelete, fmt.Sprintf("/api/locations/%d", location.ID), nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestValidationAndErrors(t *testing.T) {
	api := setupAPI(t)

	t.Run("missing name", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/locations", map[string]interface{}{"description": "no name"}, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body struct {
			Error   string            `json:"error"`
			Details map[string]string `json:"details"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Validation failed", body.Error)
		assert.Contains(t, body.Details, "name")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/people", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decode[domain.ErrorResponse](t, rec).Error)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/locations/abc", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown location", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/locations/9999", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Location not found", decode[domain.ErrorResponse](t, rec).Error)
	})

	t.Run("project under unknown location", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/locations/9999/projects", map[string]interface{}{"name": "Orphan"}, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad status", func(t *testing.T) {
		location := testutil.CreateTestLocation(t, api.db, "Site V")
		rec := api.do(http.MethodPost, fmt.Sprintf("/api/locations/%d/projects", location.ID), map[string]interface{}{
			"name": "X", "status": "sideways",
		}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/nothing-here", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestExportCSV(t *testing.T) {
	api := setupAPI(t)
	location := testutil.CreateTestLocation(t, api.db, "Site A")
	testutil.CreateTestProject(t, api.db, location.ID, "Boiler upgrade", domain.ProjectStatusAtRisk, 500, 250)

	rec := api.do(http.MethodGet, "/api/export/projects-csv", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="projects.csv"`)

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, service.ProjectsCSVHeader, records[0])
	assert.Equal(t, "Site A", records[1][0])
	assert.Equal(t, "Boiler upgrade", records[1][1])

	rec = api.do(http.MethodGet, "/api/export/people-csv", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	records, err = csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, service.PeopleCSVHeader, records[0])
}

func TestNotificationsRequireAuth(t *testing.T) {
	api := setupAPI(t)
	user := testutil.CreateTestUser(t, api.db, "manager", domain.RoleManager)
	token := api.tokenFor(user)

	notifications := repository.NewNotificationRepository(api.db)
	require.NoError(t, notifications.Create(context.Background(), &domain.Notification{
		UserID: user.ID, Title: "Heads up", Message: "Project behind", Type: domain.NotificationTypeWarning,
	}))

	rec := api.do(http.MethodGet, "/api/notifications/unread-count", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodGet, "/api/notifications/unread-count", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[domain.UnreadCountDTO](t, rec).Count)

	rec = api.do(http.MethodPut, "/api/notifications/read-all", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[domain.MarkAllReadDTO](t, rec).Updated)

	rec = api.do(http.MethodGet, "/api/notifications/unread-count", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), decode[domain.UnreadCountDTO](t, rec).Count)
}

func TestHealth(t *testing.T) {
	api := setupAPI(t)

	rec := api.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/health/db", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

type stubWarehouse struct {
	status string
}

func (s stubWarehouse) HealthCheck(context.Context) *datawarehouse.HealthStatus {
	return &datawarehouse.HealthStatus{Status: s.status}
}

func TestReadinessReportsWarehouse(t *testing.T) {
	type readiness struct {
		Status string                     `json:"status"`
		Checks map[string]json.RawMessage `json:"checks"`
	}

	t.Run("without warehouse", func(t *testing.T) {
		api := setupAPI(t)

		rec := api.do(http.MethodGet, "/health/ready", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[readiness](t, rec)
		assert.Equal(t, "healthy", body.Status)
		assert.Contains(t, body.Checks, "database")
		assert.NotContains(t, body.Checks, "data_warehouse")
	})

	t.Run("healthy warehouse", func(t *testing.T) {
		api := setupAPI(t)
		api.router.WithWarehouse(stubWarehouse{status: "healthy"})

		rec := api.do(http.MethodGet, "/health/ready", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[readiness](t, rec)
		assert.Equal(t, "healthy", body.Status)
		require.Contains(t, body.Checks, "data_warehouse")

		var dw datawarehouse.HealthStatus
		require.NoError(t, json.Unmarshal(body.Checks["data_warehouse"], &dw))
		assert.Equal(t, "healthy", dw.Status)
	})

	t.Run("unhealthy warehouse degrades but stays ready", func(t *testing.T) {
		api := setupAPI(t)
		api.router.WithWarehouse(stubWarehouse{status: "unhealthy"})

		rec := api.do(http.MethodGet, "/health/ready", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[readiness](t, rec)
		assert.Equal(t, "degraded", body.Status)

		var dw datawarehouse.HealthStatus
		require.NoError(t, json.Unmarshal(body.Checks["data_warehouse"], &dw))
		assert.Equal(t, "unhealthy", dw.Status)
	})
}
