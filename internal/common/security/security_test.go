package security

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour)
	tokenString, expires, err := issuer.GenerateToken(42)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 2*time.Second)

	token, err := jwtauth.VerifyToken(issuer.Auth, tokenString)
	require.NoError(t, err)
	assert.NotEmpty(t, token.JwtID())

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	id, err := GetUserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	other := NewTokenIssuer([]byte("other-secret"), time.Hour)
	_, err = jwtauth.VerifyToken(other.Auth, tokenString)
	assert.Error(t, err)
}

func TestGetUserIDFromClaims(t *testing.T) {
	id, err := GetUserIDFromClaims(map[string]interface{}{"user_id": json.Number("7")})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = GetUserIDFromClaims(map[string]interface{}{})
	assert.Error(t, err)
	_, err = GetUserIDFromClaims(map[string]interface{}{"user_id": "abc"})
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.Equal(t, "a@b.co", NormalizeEmail("  A@B.co "))
}

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRevoker()

	revoked, err := r.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "abc", time.Now().Add(time.Minute)))
	revoked, _ = r.IsRevoked(ctx, "abc")
	assert.True(t, revoked)

	require.NoError(t, r.Revoke(ctx, "old", time.Now().Add(-time.Minute)))
	revoked, _ = r.IsRevoked(ctx, "old")
	assert.False(t, revoked)
}
