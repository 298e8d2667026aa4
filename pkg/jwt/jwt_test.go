package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("test-secret-with-enough-length-1234", time.Hour)
	id := uuid.New()

	token, err := m.GenerateToken(id, "a@b.com", "PME")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)

	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "PME", claims.Role)
}

func TestValidateRejectsOtherSecret(t *testing.T) {
	token, err := NewManager("secret-one-secret-one-secret-one!", time.Hour).GenerateToken(uuid.New(), "a@b.com", "PME")
	require.NoError(t, err)

	_, err = NewManager("secret-two-secret-two-secret-two!", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewManager("test-secret-with-enough-length-1234", time.Hour)
	m.ttl = -time.Minute

	token, err := m.GenerateToken(uuid.New(), "a@b.com", "EXPERT")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMissing(t *testing.T) {
	_, err := NewManager("x", time.Hour).ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}
