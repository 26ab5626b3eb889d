package repositories

import (
	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/pkg/orm"
)

// CustomerRepository handles database operations for Customer.
type CustomerRepository struct{}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{}
}

// FindByID looks up a customer by primary key.
func (r *CustomerRepository) FindByID(id uint) (models.Customer, error) {
	var customer models.Customer
	err := orm.DB().Model(&models.Customer{}).Where("id = ?", id).First(&customer)
	return customer, err
}

// FindByUserID returns the customer profile linked to a user account.
func (r *CustomerRepository) FindByUserID(userID uint) (models.Customer, error) {
	var customer models.Customer
	err := orm.DB().Model(&models.Customer{}).Where("user_id = ?", userID).First(&customer)
	return customer, err
}

// Create persists a new customer.
func (r *CustomerRepository) Create(customer *models.Customer) error {
	return orm.DB().Create(customer)
}

// Update persists changes to an existing customer.
func (r *CustomerRepository) Update(customer *models.Customer) error {
	return orm.DB().Save(customer)
}

// All returns one page of customers.
func (r *CustomerRepository) All(page, limit int) ([]models.Customer, orm.Pagination, error) {
	var customers []models.Customer
	pagination, err := orm.DB().Model(&models.Customer{}).Order("id").Paginate(page, limit, &customers)
	return customers, pagination, err
}
