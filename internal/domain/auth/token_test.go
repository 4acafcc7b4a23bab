package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_IssueAndVerify(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"), time.Hour)

	signed, err := tokens.Issue(Identity{ID: "u1", Role: RoleUser}, time.Now())
	require.NoError(t, err)

	id, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.ID)
	assert.Equal(t, RoleUser, id.Role)
}

func TestTokens_Expired(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"), time.Minute)

	signed, err := tokens.Issue(Identity{ID: "u1", Role: RoleUser}, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_WrongSecret(t *testing.T) {
	issued, err := NewTokens([]byte("secret-a"), time.Hour).
		Issue(Identity{ID: "s1", Role: RoleSeller}, time.Now())
	require.NoError(t, err)

	_, err = NewTokens([]byte("secret-b"), time.Hour).Verify(issued)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_Missing(t *testing.T) {
	_, err := NewTokens([]byte("x"), time.Hour).Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	require.NoError(t, CheckPassword(hash, "hunter2"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrWrongPassword)
}
