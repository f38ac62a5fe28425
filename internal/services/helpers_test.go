package services

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/pushp314/coursehub-backend/internal/repository"
	"github.com/pushp314/coursehub-backend/internal/storage"
	"github.com/pushp314/coursehub-backend/internal/testutil"
	apperrors "github.com/pushp314/coursehub-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMedia records deleted keys.
type fakeMedia struct {
	mu      sync.Mutex
	deleted []string
}

func (m *fakeMedia) Upload(_ context.Context, folder, filename, contentType string, _ io.Reader, size int64) (*storage.Object, error) {
	key := folder + "/" + filename
	return &storage.Object{URL: "https://cdn.test/" + key, Key: key, ContentType: contentType, Size: size}, nil
}

func (m *fakeMedia) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	return nil
}

type env struct {
	repo  *repository.Repository
	fx    *testutil.Fixtures
	media *fakeMedia
	svc   *Services
}

func newEnv(t *testing.T) *env {
	db := testutil.NewTestDB(t)
	repo := repository.New(db)
	media := &fakeMedia{}
	return &env{
		repo:  repo,
		fx:    testutil.NewFixtures(t, db),
		media: media,
		svc:   New(repo, nil, media, nil, "INR"),
	}
}

func ptr[T any](v T) *T { return &v }

// assertAppError checks the HTTP status carried by err.
func assertAppError(t *testing.T, err error, code int) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}
