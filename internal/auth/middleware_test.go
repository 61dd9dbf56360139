package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/straye-as/portfolio-api/internal/auth"
	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func captureUser(captured **auth.UserContext, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		*captured, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) domain.ErrorResponse {
	t.Helper()
	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestMiddleware_Authenticate(t *testing.T) {
	tm := newTestTokenManager(t)
	mw := auth.NewMiddleware(tm, zap.NewNop())
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		var userCtx *auth.UserContext
		called := false
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		mw.Authenticate(captureUser(&userCtx, &called)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
		require.NotNil(t, userCtx)
		assert.Equal(t, int64(7), userCtx.UserID)
	})

	t.Run("missing header", func(t *testing.T) {
		var userCtx *auth.UserContext
		called := false
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		w := httptest.NewRecorder()

		mw.Authenticate(captureUser(&userCtx, &called)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, called)
		assert.NotEmpty(t, decodeError(t, w).Error)
	})

	t.Run("malformed token", func(t *testing.T) {
		var userCtx *auth.UserContext
		called := false
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		w := httptest.NewRecorder()

		mw.Authenticate(captureUser(&userCtx, &called)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, called)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		var userCtx *auth.UserContext
		called := false
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Basic "+token)
		w := httptest.NewRecorder()

		mw.Authenticate(captureUser(&userCtx, &called)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestMiddleware_OptionalAuthenticate(t *testing.T) {
	tm := newTestTokenManager(t)
	mw := auth.NewMiddleware(tm, zap.NewNop())
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	cases := []struct {
		name     string
		header   string
		wantUser bool
	}{
		{"no header", "", false},
		{"valid token", "Bearer " + token, true},
		{"invalid token", "Bearer garbage", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var userCtx *auth.UserContext
			called := false
			req := httptest.NewRequest(http.MethodGet, "/api/locations", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			mw.OptionalAuthenticate(captureUser(&userCtx, &called)).ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, called)
			assert.Equal(t, tc.wantUser, userCtx != nil)
		})
	}
}

func TestMiddleware_RequireRole(t *testing.T) {
	mw := auth.NewMiddleware(newTestTokenManager(t), zap.NewNop())
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	guarded := mw.RequireRole(domain.RoleAdmin, domain.RoleManager)(ok)

	t.Run("no identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/locations/1", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/locations/1", nil)
		req = req.WithContext(auth.WithUserContext(req.Context(), &auth.UserContext{UserID: 3, Role: domain.RoleViewer}))
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Insufficient permissions", decodeError(t, w).Error)
	})

	t.Run("allowed role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/locations/1", nil)
		req = req.WithContext(auth.WithUserContext(req.Context(), &auth.UserContext{UserID: 2, Role: domain.RoleManager}))
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestActorName(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "System", auth.ActorName(req.Context()))

	ctx := auth.WithUserContext(req.Context(), &auth.UserContext{UserID: 1, DisplayName: "Admin User"})
	assert.Equal(t, "Admin User", auth.ActorName(ctx))
}
