package repository

import (
	"errors"

	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientInventory rolls back a checkout whose guarded
// inventory decrement found less stock than the order needs
var ErrInsufficientInventory = errors.New("insufficient inventory for order")

type OrderRepository interface {
	Create(order *model.Order) error
	CreateFromCart(order *model.Order, cartID string) error
	FindByID(id uint) (*model.Order, error)
	FindByCustomerID(customerID uint) ([]model.Order, error)
	FindAll(limit, offset int) ([]model.Order, int64, error)
	Update(order *model.Order) error
	UpdatePaymentStatus(id uint, status model.PaymentStatus) error
	Delete(id uint) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Preload("Product")
	}).Preload("Customer")
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"customer_id": order.CustomerID,
		"total_price": order.TotalPrice,
		"item_count":  len(order.Items),
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"customer_id": order.CustomerID,
			"total_price": order.TotalPrice,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"total_price": order.TotalPrice,
	})
	return nil
}

// CreateFromCart writes the order, decrements product inventory and
// empties the cart in one transaction. The cart rows are locked so a
// concurrent checkout of the same cart cannot double-spend its items,
// and the decrement is guarded so stock never goes negative; any
// failure rolls the whole checkout back
func (r *orderRepository) CreateFromCart(order *model.Order, cartID string) error {
	logger.Debug("Creating order from cart in database", map[string]interface{}{
		"customer_id": order.CustomerID,
		"cart_id":     cartID,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var items []model.CartItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_id = ?", cartID).
			Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range order.Items {
			it := &order.Items[i]
			res := tx.Model(&model.Product{}).
				Where("id = ? AND inventory >= ?", it.ProductID, it.Quantity).
				Update("inventory", gorm.Expr("inventory - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientInventory
			}
		}

		if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Cart{}, "id = ?", cartID).Error
	})
	if err != nil {
		logger.Error("Failed to create order from cart in database", err, map[string]interface{}{
			"customer_id": order.CustomerID,
			"cart_id":     cartID,
		})
		return err
	}

	logger.Debug("Order created from cart in database", map[string]interface{}{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"cart_id":     cartID,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	logger.Debug("Order found by ID in database", map[string]interface{}{
		"order_id":       order.ID,
		"customer_id":    order.CustomerID,
		"payment_status": order.PaymentStatus,
	})
	return &order, nil
}

func (r *orderRepository) FindByCustomerID(customerID uint) ([]model.Order, error) {
	logger.Debug("Finding orders by customer ID in database", map[string]interface{}{
		"customer_id": customerID,
	})

	var orders []model.Order
	if err := r.preloadOrder().Where("customer_id = ?", customerID).
		Order("placed_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by customer ID in database", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}

	logger.Debug("Orders found by customer ID in database", map[string]interface{}{
		"customer_id": customerID,
		"count":       len(orders),
	})
	return orders, nil
}

func (r *orderRepository) FindAll(limit, offset int) ([]model.Order, int64, error) {
	logger.Debug("Finding all orders in database", map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})

	var total int64
	if err := r.db.Model(&model.Order{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count orders in database", err, nil)
		return nil, 0, err
	}

	query := r.preloadOrder().Order("placed_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var orders []model.Order
	if err := query.Find(&orders).Error; err != nil {
		logger.Error("Failed to find all orders in database", err, nil)
		return nil, 0, err
	}

	logger.Debug("Orders found in database", map[string]interface{}{
		"count": len(orders),
		"total": total,
	})
	return orders, total, nil
}

func (r *orderRepository) Update(order *model.Order) error {
	logger.Debug("Updating order in database", map[string]interface{}{
		"order_id":       order.ID,
		"customer_id":    order.CustomerID,
		"payment_status": order.PaymentStatus,
	})

	if err := r.db.Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id":    order.ID,
			"customer_id": order.CustomerID,
		})
		return err
	}

	logger.Debug("Order updated in database", map[string]interface{}{
		"order_id":       order.ID,
		"customer_id":    order.CustomerID,
		"payment_status": order.PaymentStatus,
	})
	return nil
}

func (r *orderRepository) UpdatePaymentStatus(id uint, status model.PaymentStatus) error {
	logger.Debug("Updating order payment status in database", map[string]interface{}{
		"order_id":       id,
		"payment_status": status,
	})

	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("payment_status", status).Error; err != nil {
		logger.Error("Failed to update order payment status in database", err, map[string]interface{}{
			"order_id":       id,
			"payment_status": status,
		})
		return err
	}

	logger.Debug("Order payment status updated in database", map[string]interface{}{
		"order_id":       id,
		"payment_status": status,
	})
	return nil
}

func (r *orderRepository) Delete(id uint) error {
	logger.Debug("Deleting order from database", map[string]interface{}{
		"order_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Order{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete order from database", err, map[string]interface{}{
			"order_id": id,
		})
		return err
	}

	logger.Debug("Order deleted from database", map[string]interface{}{
		"order_id": id,
	})
	return nil
}
