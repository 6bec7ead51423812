package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dues_portal_echo/internal/models"
)

func TestSessionRoundTrip(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	user := models.User{ID: 42, Email: "ann@example.com", Role: models.UserRoleAdmin}

	token, err := m.Issue(user)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, models.UserRoleAdmin, claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestSessionRejectsWrongSecret(t *testing.T) {
	token, err := NewSessionManager("secret", time.Hour).Issue(models.User{ID: 1})
	require.NoError(t, err)

	_, err = NewSessionManager("other", time.Hour).Validate(token)
	assert.Error(t, err)
}

func TestSessionExpires(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	issuedAt := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issuedAt }

	token, err := m.Issue(models.User{ID: 1})
	require.NoError(t, err)

	m.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = m.Validate(token)
	assert.Error(t, err)
}
