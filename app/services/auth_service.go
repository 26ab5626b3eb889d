package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andreimonforte/malocozz/app/jobs"
	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/app/repositories"
	"github.com/andreimonforte/malocozz/config"
	"github.com/andreimonforte/malocozz/pkg/auth"
	"github.com/andreimonforte/malocozz/pkg/logger"
	"github.com/andreimonforte/malocozz/pkg/otp"
	"github.com/andreimonforte/malocozz/pkg/queue"
	"github.com/andreimonforte/malocozz/pkg/validate"
)

// AuthService implements registration, email verification, login and
// password reset.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Username             string `json:"username"              validate:"required,alpha_dash,min=3,max=50"`
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"confirmed"`
	FirstName            string `json:"first_name"            validate:"required,max=100"`
	LastName             string `json:"last_name"             validate:"required,max=100"`
}

// Register creates an unverified account and emails a verification code.
// Every input problem is reported at once via ValidationError.
func (s *AuthService) Register(in RegisterInput) (*models.User, error) {
	errs := validate.Struct(&in)

	if _, err := s.users.FindByEmail(in.Email); err == nil {
		errs["email"] = "The email is already registered."
	}
	if _, err := s.users.FindByUsername(in.Username); err == nil {
		errs["username"] = "The username is already taken."
	}
	if validate.HasErrors(errs) {
		return nil, NewValidationError(errs)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      models.RoleUser,
		Active:    true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	if err := s.sendVerification(user); err != nil {
		// Account exists; the code can be re-requested.
		logger.Error("auth: send verification failed", "user_id", user.ID, "error", err)
	}

	return user, nil
}

func (s *AuthService) sendVerification(user *models.User) error {
	code, err := otp.Issue(user.Email)
	if err != nil {
		return err
	}
	return queue.Dispatch(jobs.VerificationEmailJob{
		Email: user.Email,
		Name:  user.FirstName,
		Code:  code,
	})
}

// ResendVerification issues a fresh code, replacing any previous one.
func (s *AuthService) ResendVerification(email string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if user.Verified {
		return nil
	}
	return s.sendVerification(&user)
}

// VerifyEmail checks the OTP and marks the account verified.
func (s *AuthService) VerifyEmail(email, code string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if user.Verified {
		return nil
	}

	if err := otp.Verify(email, code); err != nil {
		return err
	}

	user.Verified = true
	return s.users.Update(&user)
}

// authenticate checks the password and account state. Unknown email and
// wrong password both return ErrInvalidCredentials.
func (s *AuthService) authenticate(email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrInactive
	}
	if !user.Verified {
		return nil, ErrNotVerified
	}
	return &user, nil
}

// Login signs in a customer. Admin accounts are sent to the admin form.
func (s *AuthService) Login(email, password string) (*models.User, error) {
	user, err := s.authenticate(email, password)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, ErrUseAdminLogin
	}
	return user, nil
}

// AdminLogin signs in an administrator. Non-admin accounts are rejected.
func (s *AuthService) AdminLogin(email, password string) (*models.User, error) {
	user, err := s.authenticate(email, password)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, ErrAccessDenied
	}
	return user, nil
}

// ForgotPassword emails a reset link. An unknown email is reported as
// success so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := auth.GenerateResetToken(user.ID)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", config.AppURL(), token)
	return queue.Dispatch(jobs.PasswordResetEmailJob{
		Email: user.Email,
		Name:  user.FirstName,
		Link:  link,
	})
}

// ResetPasswordInput is the payload of the reset form.
type ResetPasswordInput struct {
	Token                string `json:"token"                 validate:"required"`
	Password             string `json:"password"              validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"confirmed"`
}

// ResetPassword validates the token and replaces the password.
func (s *AuthService) ResetPassword(in ResetPasswordInput) error {
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return NewValidationError(errs)
	}

	userID, err := auth.ValidateResetToken(in.Token)
	if err != nil {
		return ErrAccessDenied
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = hash
	return s.users.Update(&user)
}
