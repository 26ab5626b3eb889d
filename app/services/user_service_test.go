package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreimonforte/malocozz/app/models"
)

func TestPromote(t *testing.T) {
	db := setupDB(t)
	seedUser(t, db, "shopper@example.com", "correct-horse", nil)

	svc := NewUserService()
	user, err := svc.Promote("shopper@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	_, err = svc.Promote("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetActive(t *testing.T) {
	db := setupDB(t)
	u := seedUser(t, db, "shopper@example.com", "correct-horse", nil)

	svc := NewUserService()
	user, err := svc.SetActive(u.ID, false)
	require.NoError(t, err)
	assert.False(t, user.Active)

	_, err = NewAuthService().Login("shopper@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInactive)

	user, err = svc.SetActive(u.ID, true)
	require.NoError(t, err)
	assert.True(t, user.Active)
}

func TestCreateAdmin(t *testing.T) {
	setupDB(t)

	svc := NewUserService()
	admin, err := svc.CreateAdmin(AdminInput{
		Username:  "boss",
		Email:     "boss@example.com",
		Password:  "super-secret-1",
		FirstName: "Big",
		LastName:  "Boss",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.Verified)

	// Admin accounts skip OTP verification, so login works immediately.
	_, err = NewAuthService().AdminLogin("boss@example.com", "super-secret-1")
	assert.NoError(t, err)

	_, err = svc.CreateAdmin(AdminInput{
		Username:  "boss",
		Email:     "boss@example.com",
		Password:  "super-secret-1",
		FirstName: "Big",
		LastName:  "Boss",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "username")
}
