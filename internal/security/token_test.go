package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("secret", "user_1", "device-1", "FAN", time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.UserID)
	assert.Equal(t, "device-1", claims.DeviceID)
	assert.Equal(t, "FAN", claims.Role)
}

func TestAccessTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	token, err := GenerateAccessToken("secret", "user_1", "device-1", "FAN", time.Hour)
	require.NoError(t, err)
	_, err = ParseAccessToken(token, "other")
	assert.Error(t, err)

	expired, err := GenerateAccessToken("secret", "user_1", "device-1", "FAN", -time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken(expired, "secret")
	assert.Error(t, err)
}
