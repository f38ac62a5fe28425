package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/pushp314/coursehub-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeSearchQuery(t *testing.T) {
	assert.Equal(t, "%go%", SanitizeSearchQuery("  go "))
	assert.Equal(t, `%100\% off\_now%`, SanitizeSearchQuery("100% off_now"))
	assert.Equal(t, `%a\\b%`, SanitizeSearchQuery(`a\b`))

	long := strings.Repeat("é", MaxSearchLength+1)
	assert.Equal(t, "%"+long+"%", SanitizeSearchQuery(long), "never truncated")
	assert.True(t, SearchQueryTooLong(long))
	assert.False(t, SearchQueryTooLong("  "+long[:len(long)-len("é")]+"  "))
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(0), ToMinorUnits(0))
	assert.Equal(t, int64(25050), ToMinorUnits(250.5))
}

func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test_secret_key_12345"}

	token, err := GenerateToken("user-1")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.True(t, IsUUID(claims.GetJTI()))
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.GetExpiresAt(), time.Minute)

	config.AppConfig = &config.Config{JWTSecret: "another_secret"}
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestTruncateStringKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "héllo", TruncateString("héllo", 10))
	assert.Equal(t, "hé", TruncateString("héllo", 2))
	assert.Equal(t, "संगी", TruncateString("संगीत", 4))
}
