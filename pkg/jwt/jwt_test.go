package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(Identity{UserID: 7, Username: "alice", Email: "a@example.com", IsStaff: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, "7", claims.Subject)

	// Refresh Token不能当作Access Token
	_, err = m.ParseToken(pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	refreshClaims, err := m.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), refreshClaims.UserID)
}

func TestManager_Expired(t *testing.T) {
	m := NewManager("secret", time.Minute, time.Hour)
	issued := time.Now()
	m.now = func() time.Time { return issued }

	pair, err := m.GenerateToken(Identity{UserID: 1})
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestManager_InvalidSignature(t *testing.T) {
	pair, err := NewManager("secret", time.Hour, time.Hour).GenerateToken(Identity{UserID: 1})
	require.NoError(t, err)

	_, err = NewManager("other", time.Hour, time.Hour).ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = NewManager("secret", time.Hour, time.Hour).ParseToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestManager_RefreshAccessToken(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken(Identity{UserID: 3})
	require.NoError(t, err)

	access, err := m.RefreshAccessToken(pair.RefreshToken, Identity{UserID: 3, IsStaff: true})
	require.NoError(t, err)
	claims, err := m.ParseToken(access)
	require.NoError(t, err)
	assert.True(t, claims.IsStaff)

	_, err = m.RefreshAccessToken(pair.RefreshToken, Identity{UserID: 4})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = m.RefreshAccessToken(pair.AccessToken, Identity{UserID: 3})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestManager_RemainingTTL(t *testing.T) {
	m := NewManager("secret", time.Hour, time.Hour)
	now := time.Now()
	m.now = func() time.Time { return now }

	pair, err := m.GenerateToken(Identity{UserID: 1})
	require.NoError(t, err)
	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)

	ttl := m.RemainingTTL(claims)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 1)

	m.now = func() time.Time { return now.Add(2 * time.Hour) }
	assert.Equal(t, time.Duration(0), m.RemainingTTL(claims))
}
