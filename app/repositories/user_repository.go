package repositories

import (
	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("email = ?", email).First(&user)
	return user, err
}

// FindByUsername looks up a user by username.
func (r *UserRepository) FindByUsername(username string) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("username = ?", username).First(&user)
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("id = ?", id).First(&user)
	return user, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return orm.DB().Create(user)
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return orm.DB().Save(user)
}

// All returns one page of users.
func (r *UserRepository) All(page, limit int) ([]models.User, orm.Pagination, error) {
	var users []models.User
	pagination, err := orm.DB().Model(&models.User{}).Order("id").Paginate(page, limit, &users)
	return users, pagination, err
}

// CountByRole returns how many users hold the given role.
func (r *UserRepository) CountByRole(role string) (int64, error) {
	var n int64
	err := orm.DB().Model(&models.User{}).Where("role = ?", role).Count(&n)
	return n, err
}
