package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/config"
	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/internal/repository"
	"github.com/pushp314/coursehub-backend/internal/testutil"
	apperrors "github.com/pushp314/coursehub-backend/pkg/errors"
	"github.com/pushp314/coursehub-backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
}

func TestErrorHandlerRendersAppError(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandlerMiddleware())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(apperrors.ValidationFailed("Missing required fields", "title", "price"))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing required fields: title, price","fields":["title","price"]}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func newAuthRouter(t *testing.T) (*gin.Engine, *repository.Repository, *testutil.Fixtures) {
	db := testutil.NewTestDB(t)
	repo := repository.New(db)

	r := gin.New()
	r.GET("/me", AuthMiddleware(repo, nil), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID))
	})
	r.GET("/admin", AuthMiddleware(repo, nil), AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, repo, testutil.NewFixtures(t, db)
}

func request(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r, repo, fx := newAuthRouter(t)
	user := fx.User("alice")

	token, err := utils.GenerateToken(user.ID)
	require.NoError(t, err)

	w := request(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", "garbage").Code)
	assert.Equal(t, http.StatusForbidden, request(r, "/admin", token).Code)

	require.NoError(t, repo.SetUserRole(context.Background(), user.ID, models.RoleAdmin))
	assert.Equal(t, http.StatusNoContent, request(r, "/admin", token).Code)

	ghost, err := utils.GenerateToken("ghost")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", ghost).Code)
}

func TestMaintenanceMode(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.New(db)
	fx := testutil.NewFixtures(t, db)
	admin := fx.User("admin")
	require.NoError(t, repo.SetUserRole(context.Background(), admin.ID, models.RoleAdmin))

	r := gin.New()
	r.Use(OptionalAuthMiddleware(nil), MaintenanceMode(repo))
	r.GET("/api/courses", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, request(r, "/api/courses", "").Code)

	require.NoError(t, repo.SetSetting(context.Background(), models.SettingMaintenanceMode, "true", admin.ID))
	assert.Equal(t, http.StatusServiceUnavailable, request(r, "/api/courses", "").Code)

	token, err := utils.GenerateToken(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, request(r, "/api/courses", token).Code)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireEnrollmentOpen(t *testing.T) {
	repo := repository.New(testutil.NewTestDB(t))

	r := gin.New()
	r.GET("/enroll", RequireEnrollmentOpen(repo), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, request(r, "/enroll", "").Code)
	require.NoError(t, repo.SetSetting(context.Background(), models.SettingEnrollmentOpen, "false", "admin"))
	assert.Equal(t, http.StatusServiceUnavailable, request(r, "/enroll", "").Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := newClientRateLimiter(rate.Limit(0.001), 2)

	r := gin.New()
	r.GET("/", limiter.Middleware("test"), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, request(r, "/", "").Code)
	assert.Equal(t, http.StatusOK, request(r, "/", "").Code)

	w := request(r, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitKeysSignedInUsersSeparately(t *testing.T) {
	limiter := newClientRateLimiter(rate.Limit(0.001), 1)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set(ContextUserID, id)
		}
		c.Next()
	})
	r.GET("/", limiter.Middleware("test"), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Test-User", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("alice"))
	assert.Equal(t, http.StatusOK, send("bob"))
	assert.Equal(t, http.StatusTooManyRequests, send("alice"))
}

func TestRateLimiterSweepsIdleClients(t *testing.T) {
	limiter := newClientRateLimiter(rate.Limit(1), 1)
	start := time.Now()

	limiter.bucket("ip:1", start)
	limiter.bucket("ip:2", start.Add(3*time.Minute))
	limiter.bucket("ip:2", start.Add(5*time.Minute))

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.clients, "ip:1")
	assert.Contains(t, limiter.clients, "ip:2")
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(true))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := request(r, "/", "")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestLoggingMiddlewareSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggingMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := request(r, "/", "")
	id := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "from-proxy")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "from-proxy", w.Header().Get(RequestIDHeader))
}
