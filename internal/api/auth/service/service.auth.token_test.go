package authsvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", "greenfuture", time.Hour)
	token, issued, err := m.Generate("64b000000000000000000001", "hr")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "64b000000000000000000001", claims.UserID)
	assert.Equal(t, "hr", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.Equal(issued.ExpiresAt))
}

func TestTokenManager_RejectsTampering(t *testing.T) {
	m := NewTokenManager("secret", "greenfuture", time.Hour)
	token, _, err := m.Generate("u1", "employee")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = m.Validate(tampered)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)

	other := NewTokenManager("other-secret", "greenfuture", time.Hour)
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestTokenManager_RejectsWrongIssuer(t *testing.T) {
	token, _, err := NewTokenManager("secret", "someone-else", time.Hour).Generate("u1", "employee")
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "greenfuture", time.Hour).Validate(token)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("secret", "greenfuture", time.Minute)
	issuedAt := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issuedAt }
	token, _, err := m.Generate("u1", "employee")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestTokenManager_Missing(t *testing.T) {
	_, err := NewTokenManager("secret", "greenfuture", time.Hour).Validate("")
	assert.ErrorIs(t, err, common.ErrTokenMissing)
}

func TestResetToken_HashIsStable(t *testing.T) {
	raw, hash, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, hash)
	assert.Equal(t, hash, HashToken(raw))
	assert.Len(t, hash, 64)

	raw2, _, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret!")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret!", hash)

	ok, err := CheckPassword(hash, "Sup3rSecret!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CheckPassword("not-a-hash", "x")
	assert.Error(t, err)
}
