package repository

import (
	"errors"

	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindByID(id uint) (*model.Customer, error)
	FindByUserID(userID uint) (*model.Customer, error)
	FindAll(offset, limit int) ([]model.Customer, int64, error)
	Update(customer *model.Customer) error
	UpsertAddress(address *model.Address) error
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepository) FindByID(id uint) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.Preload("User").Preload("Address").First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindByUserID(userID uint) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.Preload("User").Preload("Address").
		Where("user_id = ?", userID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindAll(offset, limit int) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	query := r.db.Model(&model.Customer{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").Preload("Address").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&customers).Error
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *customerRepository) Update(customer *model.Customer) error {
	return r.db.Save(customer).Error
}

// UpsertAddress creates the customer's address or replaces the
// existing one (one address per customer)
func (r *customerRepository) UpsertAddress(address *model.Address) error {
	var existing model.Address
	err := r.db.Where("customer_id = ?", address.CustomerID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(address).Error
	}
	if err != nil {
		return err
	}

	existing.Street = address.Street
	existing.City = address.City
	existing.Zip = address.Zip
	if err := r.db.Save(&existing).Error; err != nil {
		return err
	}
	*address = existing
	return nil
}
