package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/app/service"
	apperrors "github.com/storefront-labs/storefront-backend/internal/errors"
	"github.com/storefront-labs/storefront-backend/internal/middleware"
)

type CustomerController struct {
	customerService service.CustomerService
}

func NewCustomerController(customerService service.CustomerService) *CustomerController {
	return &CustomerController{customerService: customerService}
}

type UpdateCustomerRequest struct {
	Phone      *string `json:"phone"`
	BirthDate  *string `json:"birth_date"`
	Membership *string `json:"membership"`
}

type UpdateAddressRequest struct {
	Street string `json:"street" binding:"required"`
	City   string `json:"city" binding:"required"`
	Zip    string `json:"zip"`
}

func (req *UpdateCustomerRequest) toUpdate() (service.CustomerProfileUpdate, error) {
	update := service.CustomerProfileUpdate{
		Phone: req.Phone,
	}
	if req.BirthDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			return update, err
		}
		update.BirthDate = &parsed
	}
	if req.Membership != nil {
		tier := model.MembershipTier(*req.Membership)
		update.Membership = &tier
	}
	return update, nil
}

// GetCustomers lists customer profiles, admin only
// GET /api/v1/admin/customers
func (ctrl *CustomerController) GetCustomers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, offset := parsePagination(c)

	customers, total, err := ctrl.customerService.GetCustomers(offset, limit)
	if err != nil {
		log.Error("Failed to fetch customers", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
		"count":     len(customers),
		"total":     total,
	})
}

// GetCustomer returns one customer profile, admin only
// GET /api/v1/admin/customers/:id
func (ctrl *CustomerController) GetCustomer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid customer ID")
		return
	}

	customer, err := ctrl.customerService.GetCustomer(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.CustomerNotFound, "Customer not found")
			return
		}
		log.Error("Failed to fetch customer", err, map[string]interface{}{
			"customer_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer": customer,
	})
}

// GetMyProfile returns the authenticated user's customer profile
// GET /api/v1/customers/me
func (ctrl *CustomerController) GetMyProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	customer, err := ctrl.customerService.GetCustomerByUserID(userID)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.CustomerNotFound, "Customer profile not found")
			return
		}
		log.Error("Failed to fetch customer profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer": customer,
	})
}

// UpdateMyProfile updates the authenticated user's customer profile.
// Membership changes are reserved for admins.
// PATCH /api/v1/customers/me
func (ctrl *CustomerController) UpdateMyProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid profile data")
		return
	}
	if req.Membership != nil && !middleware.IsAdmin(c) {
		apperrors.Forbidden(c, "Only admins can change membership tiers")
		return
	}

	update, err := req.toUpdate()
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Birth date must be in YYYY-MM-DD format")
		return
	}

	customer, err := ctrl.customerService.GetCustomerByUserID(userID)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.CustomerNotFound, "Customer profile not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get profile")
		return
	}

	updated, err := ctrl.customerService.UpdateCustomer(customer.ID, update)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMembership) {
			apperrors.BadRequest(c, apperrors.CustomerInvalidMembership, "Membership must be B, S or G")
			return
		}
		log.Error("Failed to update customer profile", err, map[string]interface{}{
			"customer_id": customer.ID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Profile updated successfully",
		"customer": updated,
	})
}

// UpdateCustomer updates any customer profile, admin only
// PATCH /api/v1/admin/customers/:id
func (ctrl *CustomerController) UpdateCustomer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid customer ID")
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid profile data")
		return
	}

	update, err := req.toUpdate()
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Birth date must be in YYYY-MM-DD format")
		return
	}

	customer, err := ctrl.customerService.UpdateCustomer(uint(id), update)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			apperrors.NotFound(c, apperrors.CustomerNotFound, "Customer not found")
		case errors.Is(err, service.ErrInvalidMembership):
			apperrors.BadRequest(c, apperrors.CustomerInvalidMembership, "Membership must be B, S or G")
		default:
			log.Error("Failed to update customer", err, map[string]interface{}{
				"customer_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update customer")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Customer updated successfully",
		"customer": customer,
	})
}

// UpdateMyAddress creates or replaces the authenticated user's address
// PUT /api/v1/customers/me/address
func (ctrl *CustomerController) UpdateMyAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid address data")
		return
	}

	address, err := ctrl.customerService.UpdateAddress(userID, service.AddressUpdate{
		Street: req.Street,
		City:   req.City,
		Zip:    req.Zip,
	})
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.CustomerNotFound, "Customer profile not found")
			return
		}
		log.Error("Failed to update address", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address updated successfully",
		"address": address,
	})
}
