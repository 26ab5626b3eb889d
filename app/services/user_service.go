package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/app/repositories"
	"github.com/andreimonforte/malocozz/pkg/auth"
	"github.com/andreimonforte/malocozz/pkg/orm"
	"github.com/andreimonforte/malocozz/pkg/validate"
)

// UserService implements the admin-side account management: listing,
// promotion, deactivation and bootstrap admin creation.
type UserService struct {
	users *repositories.UserRepository
}

func NewUserService() *UserService {
	return &UserService{users: repositories.NewUserRepository()}
}

// List returns one page of accounts.
func (s *UserService) List(page, limit int) ([]models.User, orm.Pagination, error) {
	return s.users.All(page, limit)
}

// Get returns one account by ID.
func (s *UserService) Get(id uint) (models.User, error) {
	user, err := s.users.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, ErrNotFound
	}
	return user, err
}

// Promote grants the admin role to the account with the given email.
func (s *UserService) Promote(email string) (*models.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	user.Role = models.RoleAdmin
	if err := s.users.Update(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetActive enables or disables an account. A deactivated account cannot
// log in but keeps its order history.
func (s *UserService) SetActive(id uint, active bool) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	user.Active = active
	if err := s.users.Update(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminInput is the payload for creating an admin account directly, already
// verified, typically from the CLI during first setup.
type AdminInput struct {
	Username  string `json:"username"   validate:"required,alpha_dash,min=3,max=50"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
}

// CreateAdmin creates a verified admin account.
func (s *UserService) CreateAdmin(in AdminInput) (*models.User, error) {
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
		return nil, err
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      models.RoleAdmin,
		Active:    true,
		Verified:  true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
