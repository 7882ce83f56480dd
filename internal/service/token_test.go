package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityservice/platform-backend/internal/models"
)

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := NewTokenManager("test-secret-that-is-long-enough-123", time.Minute)
	userID := uuid.New()

	token, err := m.Issue(userID, models.RoleAdmin)
	require.NoError(t, err)

	gotID, role, err := m.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("test-secret-that-is-long-enough-123", -time.Minute)

	token, err := m.Issue(uuid.New(), models.RoleWorker)
	require.NoError(t, err)

	_, _, err = m.ParseAccess(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-one-secret-one-secret-one-1", time.Minute)
	verifier := NewTokenManager("secret-two-secret-two-secret-two-2", time.Minute)

	token, err := issuer.Issue(uuid.New(), models.RoleWorker)
	require.NoError(t, err)

	_, _, err = verifier.ParseAccess(token)
	assert.Error(t, err)
}
