package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/storefront-labs/storefront-backend/internal/app/service"
	apperrors "github.com/storefront-labs/storefront-backend/internal/errors"
	"github.com/storefront-labs/storefront-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// CreateCart creates a new anonymous cart and returns its UUID
// POST /api/v1/carts
func (ctrl *CartController) CreateCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cart, err := ctrl.cartService.CreateCart()
	if err != nil {
		log.Error("Failed to create cart", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create cart")
		return
	}

	log.Info("Cart created", map[string]interface{}{
		"cart_id": cart.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"cart": cart,
	})
}

// GetCart returns a cart with its items and computed total
// GET /api/v1/carts/:id
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	cartID := c.Param("id")

	cart, total, err := ctrl.cartService.GetCart(cartID)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
			return
		}
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"cart_id": cartID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart":        cart,
		"total_price": total,
	})
}

// DeleteCart discards a cart and its items
// DELETE /api/v1/carts/:id
func (ctrl *CartController) DeleteCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	cartID := c.Param("id")

	if err := ctrl.cartService.DeleteCart(cartID); err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
			return
		}
		log.Error("Failed to delete cart", err, map[string]interface{}{
			"cart_id": cartID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart deleted successfully",
	})
}

// AddItem adds a product to the cart, merging into an existing line
// POST /api/v1/carts/:id/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	cartID := c.Param("id")

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid cart item data")
		return
	}

	item, err := ctrl.cartService.AddItem(cartID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.BadRequest(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.BadRequest(c, apperrors.CartInsufficientStock, "Not enough inventory for the requested quantity")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Quantity must be positive")
		case apperrors.IsUniqueViolation(err):
			apperrors.ParseAndRespond(c, http.StatusConflict, err, "add cart item")
		default:
			log.Error("Failed to add cart item", err, map[string]interface{}{
				"cart_id":    cartID,
				"product_id": req.ProductID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add cart item")
		}
		return
	}

	log.Info("Cart item added", map[string]interface{}{
		"cart_id":    cartID,
		"product_id": req.ProductID,
		"quantity":   item.Quantity,
	})

	c.JSON(http.StatusCreated, gin.H{
		"item": item,
	})
}

// UpdateItem replaces the quantity of a cart line
// PATCH /api/v1/carts/:id/items/:item_id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	cartID := c.Param("id")

	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart item ID")
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid cart item data")
		return
	}

	item, err := ctrl.cartService.UpdateItem(cartID, uint(itemID), req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
		case errors.Is(err, service.ErrCartItemNotFound):
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.BadRequest(c, apperrors.CartInsufficientStock, "Not enough inventory for the requested quantity")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Quantity must be positive")
		default:
			log.Error("Failed to update cart item", err, map[string]interface{}{
				"cart_id": cartID,
				"item_id": itemID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update cart item")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item": item,
	})
}

// RemoveItem removes a line from the cart
// DELETE /api/v1/carts/:id/items/:item_id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	cartID := c.Param("id")

	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart item ID")
		return
	}

	if err := ctrl.cartService.RemoveItem(cartID, uint(itemID)); err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
		case errors.Is(err, service.ErrCartItemNotFound):
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
		default:
			log.Error("Failed to remove cart item", err, map[string]interface{}{
				"cart_id": cartID,
				"item_id": itemID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove cart item")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item removed successfully",
	})
}
