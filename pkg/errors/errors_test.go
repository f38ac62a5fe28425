package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationFailedListsFields(t *testing.T) {
	err := ValidationFailed("Missing required fields", "title", "price")

	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Equal(t, []string{"title", "price"}, err.Fields)
	assert.Equal(t, "Missing required fields: title, price", err.Error())
}

func TestUnavailableWrapsCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := fmt.Errorf("listing: %w", Unavailable("Failed to fetch courses", cause))

	appErr, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.Code)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
}
