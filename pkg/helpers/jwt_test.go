package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Minute, time.Hour)

	tok, exp, err := m.GenerateAccessToken("u1", "s1")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Minute), exp, 2*time.Second)

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, "s1", claims.SessionID)

	_, err = m.ParseRefreshToken(tok)
	require.Error(t, err, "access token must not verify with the refresh secret")
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("access", "refresh", -time.Minute, time.Hour)
	tok, _, err := m.GenerateAccessToken("u1", "s1")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(tok)
	require.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("password")
	require.NoError(t, err)
	require.True(t, CompareHashAndPassword(h, "password"))
	require.False(t, CompareHashAndPassword(h, "Password"))
}
