package service

import (
	"errors"
	"time"

	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrInvalidMembership = errors.New("invalid membership tier")

type CustomerProfileUpdate struct {
	Phone      *string
	BirthDate  *time.Time
	Membership *model.MembershipTier
}

type AddressUpdate struct {
	Street string
	City   string
	Zip    string
}

type CustomerService interface {
	GetCustomers(offset, limit int) ([]model.Customer, int64, error)
	GetCustomer(id uint) (*model.Customer, error)
	GetCustomerByUserID(userID uint) (*model.Customer, error)
	UpdateCustomer(id uint, update CustomerProfileUpdate) (*model.Customer, error)
	UpdateAddress(userID uint, update AddressUpdate) (*model.Address, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) GetCustomers(offset, limit int) ([]model.Customer, int64, error) {
	return s.customerRepo.FindAll(offset, limit)
}

func (s *customerService) GetCustomer(id uint) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetCustomerByUserID(userID uint) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (s *customerService) UpdateCustomer(id uint, update CustomerProfileUpdate) (*model.Customer, error) {
	logger.Info("Updating customer profile", map[string]interface{}{
		"customer_id": id,
	})

	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	if update.Phone != nil {
		customer.Phone = *update.Phone
	}
	if update.BirthDate != nil {
		customer.BirthDate = update.BirthDate
	}
	if update.Membership != nil {
		switch *update.Membership {
		case model.MembershipBronze, model.MembershipSilver, model.MembershipGold:
			customer.Membership = *update.Membership
		default:
			return nil, ErrInvalidMembership
		}
	}

	if err := s.customerRepo.Update(customer); err != nil {
		logger.Error("Failed to update customer", err, map[string]interface{}{
			"customer_id": id,
		})
		return nil, err
	}

	return customer, nil
}

// UpdateAddress replaces the customer's single address
func (s *customerService) UpdateAddress(userID uint, update AddressUpdate) (*model.Address, error) {
	customer, err := s.customerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	address := &model.Address{
		CustomerID: customer.ID,
		Street:     update.Street,
		City:       update.City,
		Zip:        update.Zip,
	}
	if err := s.customerRepo.UpsertAddress(address); err != nil {
		logger.Error("Failed to upsert customer address", err, map[string]interface{}{
			"customer_id": customer.ID,
		})
		return nil, err
	}

	return address, nil
}
