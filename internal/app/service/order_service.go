package service

import (
	"errors"

	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrOrderAccessDenied  = errors.New("order does not belong to customer")
	ErrInvalidOrderStatus = errors.New("invalid payment status")
)

// OrderNotifier pushes order events to connected admin clients
type OrderNotifier interface {
	NotifyOrderPlaced(order *model.Order)
	NotifyPaymentStatus(order *model.Order)
}

type OrderService interface {
	Checkout(userID uint, cartID string) (*model.Order, error)
	GetOrder(userID, orderID uint, admin bool) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetAllOrders(limit, offset int) ([]model.Order, int64, error)
	UpdatePaymentStatus(orderID uint, status model.PaymentStatus) (*model.Order, error)
	DeleteOrder(orderID uint) error
}

type orderService struct {
	orderRepo    repository.OrderRepository
	cartRepo     repository.CartRepository
	customerRepo repository.CustomerRepository
	notifier     OrderNotifier
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	customerRepo repository.CustomerRepository,
	notifier OrderNotifier,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		customerRepo: customerRepo,
		notifier:     notifier,
	}
}

// Checkout turns the cart into an order. Prices are captured from the
// products at this moment, the items are validated against inventory,
// and the cart is consumed.
func (s *orderService) Checkout(userID uint, cartID string) (*model.Order, error) {
	logger.Info("Checking out cart", map[string]interface{}{
		"user_id": userID,
		"cart_id": cartID,
	})

	customer, err := s.customerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Checkout failed: customer not found", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	cart, err := s.cartRepo.FindByID(cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Checkout failed: cart not found", map[string]interface{}{
				"cart_id": cartID,
			})
			return nil, ErrCartNotFound
		}
		logger.Error("Failed to fetch cart for checkout", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}
	if len(cart.Items) == 0 {
		logger.Warn("Checkout failed: cart is empty", map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, ErrCartEmpty
	}

	var total float64
	items := make([]model.OrderItem, 0, len(cart.Items))
	for i := range cart.Items {
		ci := &cart.Items[i]
		if ci.Product.Inventory < ci.Quantity {
			logger.Warn("Checkout failed: insufficient inventory", map[string]interface{}{
				"cart_id":    cartID,
				"product_id": ci.ProductID,
				"requested":  ci.Quantity,
				"available":  ci.Product.Inventory,
			})
			return nil, ErrInsufficientStock
		}
		items = append(items, model.OrderItem{
			ProductID: ci.ProductID,
			Quantity:  ci.Quantity,
			UnitPrice: ci.Product.UnitPrice,
		})
		total += ci.Product.UnitPrice * float64(ci.Quantity)
	}

	order := &model.Order{
		CustomerID:    customer.ID,
		PaymentStatus: model.PaymentStatusPending,
		TotalPrice:    total,
		Items:         items,
	}

	if err := s.orderRepo.CreateFromCart(order, cartID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartEmpty
		}
		if errors.Is(err, repository.ErrInsufficientInventory) {
			logger.Warn("Checkout failed: inventory changed under the cart", map[string]interface{}{
				"cart_id": cartID,
			})
			return nil, ErrInsufficientStock
		}
		logger.Error("Failed to create order from cart", err, map[string]interface{}{
			"cart_id":     cartID,
			"customer_id": customer.ID,
		})
		return nil, err
	}

	placed, err := s.orderRepo.FindByID(order.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyOrderPlaced(placed)
	}

	logger.Info("Order placed", map[string]interface{}{
		"order_id":    placed.ID,
		"customer_id": customer.ID,
		"total_price": placed.TotalPrice,
		"item_count":  len(placed.Items),
	})
	return placed, nil
}

func (s *orderService) GetOrder(userID, orderID uint, admin bool) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if !admin {
		customer, err := s.customerRepo.FindByUserID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOrderNotFound
			}
			return nil, err
		}
		if order.CustomerID != customer.ID {
			logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
				"order_id":    orderID,
				"user_id":     userID,
				"customer_id": customer.ID,
				"owner_id":    order.CustomerID,
			})
			return nil, ErrOrderNotFound
		}
	}

	return order, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	customer, err := s.customerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return s.orderRepo.FindByCustomerID(customer.ID)
}

func (s *orderService) GetAllOrders(limit, offset int) ([]model.Order, int64, error) {
	return s.orderRepo.FindAll(limit, offset)
}

func (s *orderService) UpdatePaymentStatus(orderID uint, status model.PaymentStatus) (*model.Order, error) {
	logger.Info("Updating order payment status", map[string]interface{}{
		"order_id":       orderID,
		"payment_status": status,
	})

	switch status {
	case model.PaymentStatusPending, model.PaymentStatusComplete, model.PaymentStatusFailed:
	default:
		return nil, ErrInvalidOrderStatus
	}

	if _, err := s.orderRepo.FindByID(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := s.orderRepo.UpdatePaymentStatus(orderID, status); err != nil {
		logger.Error("Failed to update payment status", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyPaymentStatus(order)
	}

	return order, nil
}

func (s *orderService) DeleteOrder(orderID uint) error {
	if _, err := s.orderRepo.FindByID(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	return s.orderRepo.Delete(orderID)
}
