package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundtrip(t *testing.T) {
	token, err := GenerateAccessToken("test-secret", "user-1", "citizen", "active", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "citizen", claims.Role)
	assert.Equal(t, "active", claims.AccountStatus)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("right-secret", "user-1", "admin", "active", time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "wrong-secret")
	assert.Error(t, err)
}

func TestParseAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken("test-secret", "user-1", "citizen", "active", -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "test-secret")
	assert.Error(t, err)
}

func TestParseAccessTokenGarbage(t *testing.T) {
	_, err := ParseAccessToken("not.a.jwt", "test-secret")
	assert.Error(t, err)
}

func TestSignResourceVerify(t *testing.T) {
	sig := SignResource("secret", "img-1", "reports/2026/03/img.png")

	assert.True(t, VerifyResource("secret", "img-1", "reports/2026/03/img.png", sig))
	assert.False(t, VerifyResource("secret", "img-2", "reports/2026/03/img.png", sig))
	assert.False(t, VerifyResource("secret", "img-1", "reports/2026/03/other.png", sig))
	assert.False(t, VerifyResource("other-secret", "img-1", "reports/2026/03/img.png", sig))
}
