package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/internal/config"
	"github.com/pushp314/coursehub-backend/internal/handlers"
	"github.com/pushp314/coursehub-backend/internal/migrations"
	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/internal/repository"
	"github.com/pushp314/coursehub-backend/internal/routes"
	"github.com/pushp314/coursehub-backend/internal/services"
	"github.com/pushp314/coursehub-backend/internal/storage"
	"github.com/pushp314/coursehub-backend/internal/testutil"
	"github.com/stretchr/testify/require"
)

// Each test gets its own client address so the package-level rate limiters
// never trip across tests.
var clientSeq int32

type app struct {
	t      *testing.T
	router *gin.Engine
	repo   *repository.Repository
	ip     string
}

func setupApp(t *testing.T) *app {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:         "test",
		JWTSecret:   "test_secret_key_12345",
		FrontendURL: "http://localhost:3000",
	}
	config.AppConfig = cfg

	db := testutil.NewTestDB(t)
	require.NoError(t, migrations.NewMigrator(db).Run())

	repo := repository.New(db)
	media := storage.NoopStore{}
	svc := services.New(repo, nil, media, nil, "INR")

	n := atomic.AddInt32(&clientSeq, 1)
	return &app{
		t:      t,
		router: routes.Setup(handlers.New(cfg, repo, nil, media, svc)),
		repo:   repo,
		ip:     fmt.Sprintf("10.0.%d.%d:1234", n/250, n%250+1),
	}
}

func (a *app) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = a.ip
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// expect asserts the status and decodes the body.
func (a *app) expect(w *httptest.ResponseRecorder, status int) map[string]interface{} {
	a.t.Helper()
	require.Equal(a.t, status, w.Code, w.Body.String())

	var out map[string]interface{}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// register signs a user up and returns the token and user id.
func (a *app) register(name string) (string, string) {
	a.t.Helper()
	resp := a.expect(a.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name":     name,
		"email":    name + "@example.com",
		"password": "secret123",
	}, ""), http.StatusCreated)

	user := resp["user"].(map[string]interface{})
	return resp["token"].(string), user["id"].(string)
}

func (a *app) registerAdmin(name string) string {
	a.t.Helper()
	token, id := a.register(name)
	require.NoError(a.t, a.repo.SetUserRole(context.Background(), id, models.RoleAdmin))
	return token
}

func object(v interface{}, key string) map[string]interface{} {
	return v.(map[string]interface{})[key].(map[string]interface{})
}
