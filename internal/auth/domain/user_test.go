package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUser_IsLocked(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	assert.False(t, (&User{}).IsLocked(now))
	assert.True(t, (&User{LockedUntil: &future}).IsLocked(now))
	assert.False(t, (&User{LockedUntil: &past}).IsLocked(now))
}

func TestUser_Principal(t *testing.T) {
	u := &User{
		ID:             uuid.Must(uuid.NewV7()),
		TenantID:       uuid.Must(uuid.NewV7()),
		Email:          "ops@metro.test",
		Role:           RoleBackoffice,
		Capabilities:   Capabilities{CapStsRead},
		SessionVersion: 4,
	}
	sessionID := uuid.Must(uuid.NewV7())

	p := u.Principal(sessionID)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, u.TenantID, p.TenantID)
	assert.Equal(t, RoleBackoffice, p.Role)
	assert.Equal(t, 4, p.SessionVersion)
	assert.Equal(t, sessionID, p.SessionID)
}

func TestSession_IsUsable(t *testing.T) {
	now := time.Now()
	revoked := now.Add(-time.Second)

	assert.True(t, (&Session{ExpiresAt: now.Add(time.Hour)}).IsUsable(now))
	assert.False(t, (&Session{ExpiresAt: now}).IsUsable(now))
	assert.False(t, (&Session{ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked}).IsUsable(now))
}

func TestUpdateUserInput_ChangesAccess(t *testing.T) {
	name := "New Name"
	role := RoleAdmin

	assert.False(t, UpdateUserInput{Name: &name}.ChangesAccess())
	assert.True(t, UpdateUserInput{Role: &role}.ChangesAccess())
}
