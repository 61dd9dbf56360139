package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/portfolio-api/internal/auth"
	"github.com/straye-as/portfolio-api/internal/config"
	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestLogging_RequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := middleware.Logging(zap.New(core))(http.HandlerFunc(okHandler))

	t.Run("generated when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/locations", nil))

		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("incoming id kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/locations", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "req-123", rec.Header().Get(middleware.RequestIDHeader))
	})

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[1]
	assert.Equal(t, "req-123", entry.ContextMap()["request_id"])
	assert.Equal(t, int64(http.StatusOK), entry.ContextMap()["status_code"])
}

func TestLogging_CapturesIdentitySetDownstream(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Stands in for the authentication middleware of a nested route group
		_ = auth.WithUserContext(r.Context(), &auth.UserContext{UserID: 7, DisplayName: "Admin User", Role: domain.RoleAdmin})
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	middleware.Logging(zap.New(core))(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, int64(7), fields["user_id"])
	assert.Equal(t, "Admin User", fields["user_name"])
	assert.Equal(t, int64(http.StatusNoContent), fields["status_code"])
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	handler := middleware.Recovery(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestSecurityHeaders(t *testing.T) {
	cfg := &config.SecurityConfig{
		EnableHSTS:            true,
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
		FrameOptions:          "DENY",
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}

	rec := httptest.NewRecorder()
	middleware.SecurityHeaders(cfg)(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestCORS(t *testing.T) {
	logger := zap.NewNop()
	preflight := func(handler http.Handler, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/locations", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}
	cfg := config.CORSConfig{AllowedMethods: []string{http.MethodGet}}

	t.Run("explicit origins", func(t *testing.T) {
		c := cfg
		c.AllowedOrigins = []string{"https://portfolio.example.com"}
		handler := middleware.CORS(&c, "production", logger)(http.HandlerFunc(okHandler))

		assert.Equal(t, "https://portfolio.example.com",
			preflight(handler, "https://portfolio.example.com").Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, preflight(handler, "https://evil.example.com").Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("development allows any origin", func(t *testing.T) {
		handler := middleware.CORS(&cfg, "development", logger)(http.HandlerFunc(okHandler))

		assert.Equal(t, "http://localhost:5173",
			preflight(handler, "http://localhost:5173").Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("production without origins denies", func(t *testing.T) {
		handler := middleware.CORS(&cfg, "production", logger)(http.HandlerFunc(okHandler))

		assert.Empty(t, preflight(handler, "http://localhost:5173").Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimiter(t *testing.T) {
	cfg := &config.RateLimitConfig{
		Enabled:               true,
		RequestsPerMinute:     2,
		RequestsPerMinuteAuth: 3,
		WhitelistPaths:        []string{"/health", "/swagger/*"},
		WhitelistIPs:          []string{"10.0.0.9"},
	}

	send := func(handler http.Handler, path, ip string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = ip + ":4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("limits by ip", func(t *testing.T) {
		handler := middleware.NewRateLimiter(cfg, zap.NewNop()).LimitByIP(http.HandlerFunc(okHandler))

		assert.Equal(t, http.StatusOK, send(handler, "/api/locations", "192.0.2.1"))
		assert.Equal(t, http.StatusOK, send(handler, "/api/locations", "192.0.2.1"))
		assert.Equal(t, http.StatusTooManyRequests, send(handler, "/api/locations", "192.0.2.1"))
		assert.Equal(t, http.StatusOK, send(handler, "/api/locations", "192.0.2.2"))
	})

	t.Run("whitelisted paths and ips pass", func(t *testing.T) {
		handler := middleware.NewRateLimiter(cfg, zap.NewNop()).LimitByIP(http.HandlerFunc(okHandler))

		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, send(handler, "/health", "192.0.2.3"))
			assert.Equal(t, http.StatusOK, send(handler, "/swagger/index.html", "192.0.2.3"))
			assert.Equal(t, http.StatusOK, send(handler, "/api/locations", "10.0.0.9"))
		}
	})

	t.Run("authenticated requests use the user budget", func(t *testing.T) {
		limiter := middleware.NewRateLimiter(cfg, zap.NewNop())
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithUserContext(r.Context(), &auth.UserContext{UserID: 1, Role: domain.RoleAdmin})
			limiter.Limit(http.HandlerFunc(okHandler)).ServeHTTP(w, r.WithContext(ctx))
		})

		codes := make([]int, 0, 4)
		for i := 0; i < 4; i++ {
			codes = append(codes, send(handler, "/api/notifications", "192.0.2.4"))
		}
		assert.Equal(t, []int{200, 200, 200, 429}, codes)
	})

	t.Run("disabled", func(t *testing.T) {
		off := *cfg
		off.Enabled = false
		handler := middleware.NewRateLimiter(&off, zap.NewNop()).LimitByIP(http.HandlerFunc(okHandler))

		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, send(handler, "/api/locations", "192.0.2.5"))
		}
	})
}

func TestMetrics_PassesThrough(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.Metrics)
	r.Get("/api/locations/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/locations/1", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
