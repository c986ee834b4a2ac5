package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(secret, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	uid, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, 42, uid)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("right"), 7)
	require.NoError(t, err)

	_, err = ParseToken([]byte("wrong"), token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken([]byte("secret"), "not.a.token")
	assert.Error(t, err)
}
