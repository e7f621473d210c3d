package service

import (
	"errors"

	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	apperrors "github.com/storefront-labs/storefront-backend/internal/errors"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient product inventory")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)

type CartService interface {
	CreateCart() (*model.Cart, error)
	GetCart(cartID string) (*model.Cart, float64, error)
	DeleteCart(cartID string) error
	AddItem(cartID string, productID uint, quantity int) (*model.CartItem, error)
	UpdateItem(cartID string, itemID uint, quantity int) (*model.CartItem, error)
	RemoveItem(cartID string, itemID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) CreateCart() (*model.Cart, error) {
	cart := &model.Cart{}
	if err := s.cartRepo.Create(cart); err != nil {
		logger.Error("Failed to create cart", err, nil)
		return nil, err
	}

	logger.Info("Cart created", map[string]interface{}{
		"cart_id": cart.ID,
	})
	return cart, nil
}

func (s *cartService) GetCart(cartID string) (*model.Cart, float64, error) {
	logger.Debug("Fetching cart", map[string]interface{}{
		"cart_id": cartID,
	})

	cart, err := s.cartRepo.FindByID(cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart not found", map[string]interface{}{
				"cart_id": cartID,
			})
			return nil, 0, ErrCartNotFound
		}
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, 0, err
	}

	var total float64
	for i := range cart.Items {
		total += cart.Items[i].TotalPrice()
	}

	return cart, total, nil
}

func (s *cartService) DeleteCart(cartID string) error {
	if _, err := s.cartRepo.FindByID(cartID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartNotFound
		}
		return err
	}
	return s.cartRepo.Delete(cartID)
}

// AddItem puts a product in the cart. Adding a product that is already
// there bumps the existing line's quantity instead of creating a
// duplicate row.
func (s *cartService) AddItem(cartID string, productID uint, quantity int) (*model.CartItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"cart_id":    cartID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	if _, err := s.cartRepo.FindByID(cartID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"cart_id":    cartID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	existing, err := s.cartRepo.FindItemByCartAndProduct(cartID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart item", err, map[string]interface{}{
			"cart_id":    cartID,
			"product_id": productID,
		})
		return nil, err
	}

	requested := quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if product.Inventory < requested {
		logger.Warn("Cannot add to cart: insufficient inventory", map[string]interface{}{
			"cart_id":    cartID,
			"product_id": productID,
			"requested":  requested,
			"available":  product.Inventory,
		})
		return nil, ErrInsufficientStock
	}

	if existing != nil {
		existing.Quantity = requested
		if err := s.cartRepo.UpdateItem(existing); err != nil {
			logger.Error("Failed to update cart item", err, map[string]interface{}{
				"cart_item_id": existing.ID,
			})
			return nil, err
		}
		existing.Product = *product
		return existing, nil
	}

	item := &model.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.CreateItem(item); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return s.mergeConflictingItem(cartID, productID, quantity, product, err)
		}
		logger.Error("Failed to create cart item", err, map[string]interface{}{
			"cart_id":    cartID,
			"product_id": productID,
		})
		return nil, err
	}
	item.Product = *product

	logger.Info("Cart item added", map[string]interface{}{
		"cart_item_id": item.ID,
		"cart_id":      cartID,
	})
	return item, nil
}

// mergeConflictingItem retries an insert that lost the race against a
// concurrent AddItem for the same (cart, product) pair: the line that
// won is re-read and bumped instead. conflictErr is returned as-is if
// the winning row cannot be read back, so the caller still sees the
// conflict.
func (s *cartService) mergeConflictingItem(cartID string, productID uint, quantity int, product *model.Product, conflictErr error) (*model.CartItem, error) {
	logger.Warn("Cart item insert conflicted, merging into existing line", map[string]interface{}{
		"cart_id":    cartID,
		"product_id": productID,
	})

	existing, err := s.cartRepo.FindItemByCartAndProduct(cartID, productID)
	if err != nil {
		return nil, conflictErr
	}

	existing.Quantity += quantity
	if product.Inventory < existing.Quantity {
		return nil, ErrInsufficientStock
	}
	if err := s.cartRepo.UpdateItem(existing); err != nil {
		logger.Error("Failed to merge conflicting cart item", err, map[string]interface{}{
			"cart_item_id": existing.ID,
		})
		return nil, err
	}
	existing.Product = *product
	return existing, nil
}

func (s *cartService) UpdateItem(cartID string, itemID uint, quantity int) (*model.CartItem, error) {
	logger.Info("Updating cart item", map[string]interface{}{
		"cart_id":      cartID,
		"cart_item_id": itemID,
		"quantity":     quantity,
	})

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.cartRepo.FindItemByID(cartID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found", map[string]interface{}{
				"cart_id":      cartID,
				"cart_item_id": itemID,
			})
			return nil, ErrCartItemNotFound
		}
		logger.Error("Failed to fetch cart item", err, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return nil, err
	}

	if item.Product.Inventory < quantity {
		logger.Warn("Cannot update cart item: insufficient inventory", map[string]interface{}{
			"cart_item_id": itemID,
			"requested":    quantity,
			"available":    item.Product.Inventory,
		})
		return nil, ErrInsufficientStock
	}

	item.Quantity = quantity
	if err := s.cartRepo.UpdateItem(item); err != nil {
		logger.Error("Failed to update cart item", err, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return nil, err
	}

	return item, nil
}

func (s *cartService) RemoveItem(cartID string, itemID uint) error {
	logger.Info("Removing cart item", map[string]interface{}{
		"cart_id":      cartID,
		"cart_item_id": itemID,
	})

	if err := s.cartRepo.DeleteItem(cartID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		logger.Error("Failed to delete cart item", err, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return err
	}

	return nil
}
