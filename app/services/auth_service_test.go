package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/pkg/auth"
)

func seedUser(t *testing.T, db *gorm.DB, email, password string, mutate func(*models.User)) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	u := models.User{
		Username:  "shopper",
		Email:     email,
		Password:  hash,
		FirstName: "Test",
		LastName:  "Shopper",
		Role:      models.RoleUser,
		Active:    true,
		Verified:  true,
	}
	if mutate != nil {
		mutate(&u)
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func TestLogin(t *testing.T) {
	db := setupDB(t)
	seedUser(t, db, "shopper@example.com", "correct-horse", nil)

	svc := NewAuthService()

	user, err := svc.Login("shopper@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "shopper@example.com", user.Email)

	_, err = svc.Login("shopper@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown accounts get the same answer as a wrong password.
	_, err = svc.Login("nobody@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginBlockedAccounts(t *testing.T) {
	db := setupDB(t)
	seedUser(t, db, "banned@example.com", "correct-horse", func(u *models.User) {
		u.Username = "banned"
		u.Active = false
	})
	seedUser(t, db, "new@example.com", "correct-horse", func(u *models.User) {
		u.Username = "newbie"
		u.Verified = false
	})

	svc := NewAuthService()

	_, err := svc.Login("banned@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInactive)

	_, err = svc.Login("new@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestLoginRejectsAdminAccounts(t *testing.T) {
	db := setupDB(t)
	seedUser(t, db, "boss@example.com", "correct-horse", func(u *models.User) {
		u.Username = "boss"
		u.Role = models.RoleAdmin
	})

	// Administrators must sign in through the admin form.
	_, err := NewAuthService().Login("boss@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrUseAdminLogin)
}

func TestDeactivatedUserIsStoredDeactivated(t *testing.T) {
	db := setupDB(t)
	seedUser(t, db, "banned@example.com", "correct-horse", func(u *models.User) {
		u.Username = "banned"
		u.Active = false
	})

	// The zero value must survive the insert, not be replaced by a column
	// default.
	var fresh models.User
	require.NoError(t, db.Where("email = ?", "banned@example.com").First(&fresh).Error)
	assert.False(t, fresh.Active)
}

func TestAdminLogin(t *testing.T) {
	db := setupDB(t)
	seedUser(t, db, "shopper@example.com", "correct-horse", nil)
	seedUser(t, db, "boss@example.com", "correct-horse", func(u *models.User) {
		u.Username = "boss"
		u.Role = models.RoleAdmin
	})

	svc := NewAuthService()

	_, err := svc.AdminLogin("shopper@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrAccessDenied)

	admin, err := svc.AdminLogin("boss@example.com", "correct-horse")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	setupDB(t)

	// Unknown addresses must not be distinguishable from known ones.
	assert.NoError(t, NewAuthService().ForgotPassword("nobody@example.com"))
}

func TestResetPassword(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "shopper@example.com", "old-password", nil)

	token, err := auth.GenerateResetToken(user.ID)
	require.NoError(t, err)

	svc := NewAuthService()
	err = svc.ResetPassword(ResetPasswordInput{
		Token:                token,
		Password:             "brand-new-pass",
		PasswordConfirmation: "brand-new-pass",
	})
	require.NoError(t, err)

	_, err = svc.Login("shopper@example.com", "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("shopper@example.com", "brand-new-pass")
	assert.NoError(t, err)
}

func TestResetPasswordRejectsAccessToken(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "shopper@example.com", "old-password", nil)

	// A plain session token must not work as a reset token.
	token, err := auth.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)

	err = NewAuthService().ResetPassword(ResetPasswordInput{
		Token:                token,
		Password:             "brand-new-pass",
		PasswordConfirmation: "brand-new-pass",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRegisterReportsAllErrors(t *testing.T) {
	db := setupDB(t)
	seedUser(t, db, "taken@example.com", "whatever-pass", func(u *models.User) {
		u.Username = "taken"
	})

	_, err := NewAuthService().Register(RegisterInput{
		Username:             "taken",
		Email:                "taken@example.com",
		Password:             "short",
		PasswordConfirmation: "mismatch",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "first_name")
	assert.Contains(t, verr.Fields, "last_name")
}
