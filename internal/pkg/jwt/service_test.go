package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHMACService_AccessRoundTrip(t *testing.T) {
	s := NewHMACService("a-secret", "r-secret", time.Minute, time.Hour)
	sub := Subject{SessionID: uuid.New(), UserID: uuid.New(), Email: "w@example.com", Phone: "555", Role: "worker"}

	tok, err := s.GenerateAccessToken(sub)
	require.NoError(t, err)

	c, err := s.ValidateToken(tok)
	require.NoError(t, err)
	require.Equal(t, sub.SessionID, c.SessionID)
	require.Equal(t, sub.UserID, c.UserID)
	require.Equal(t, "worker", c.Role)
	require.Equal(t, "555", c.Phone)
	require.False(t, s.IsRefreshToken(c))
}

func TestHMACService_RefreshCarriesOnlyIdentity(t *testing.T) {
	s := NewHMACService("a-secret", "r-secret", time.Minute, time.Hour)
	sub := Subject{SessionID: uuid.New(), UserID: uuid.New(), Email: "b@example.com", Role: "business"}

	tok, err := s.GenerateRefreshToken(sub)
	require.NoError(t, err)

	c, err := s.ValidateToken(tok)
	require.NoError(t, err)
	require.True(t, s.IsRefreshToken(c))
	require.Equal(t, sub.SessionID, c.SessionID)
	require.Empty(t, c.Email)
}

func TestHMACService_Expired(t *testing.T) {
	s := NewHMACService("a-secret", "r-secret", time.Minute, time.Hour)
	base := time.Now()
	s.now = func() time.Time { return base.Add(-2 * time.Hour) }

	tok, err := s.GenerateAccessToken(Subject{UserID: uuid.New()})
	require.NoError(t, err)

	s.now = func() time.Time { return base }
	_, err = s.ValidateToken(tok)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestHMACService_WrongSecret(t *testing.T) {
	a := NewHMACService("a-secret", "r-secret", time.Minute, time.Hour)
	b := NewHMACService("other", "other-r", time.Minute, time.Hour)

	tok, err := a.GenerateAccessToken(Subject{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = b.ValidateToken(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestHMACService_MissingSecret(t *testing.T) {
	s := NewHMACService("", "r", time.Minute, time.Hour)
	_, err := s.GenerateAccessToken(Subject{UserID: uuid.New()})
	require.ErrorIs(t, err, ErrTokenInvalid)
}
