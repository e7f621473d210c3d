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

type PromotionController struct {
	promotionService service.PromotionService
}

func NewPromotionController(promotionService service.PromotionService) *PromotionController {
	return &PromotionController{promotionService: promotionService}
}

type PromotionRequest struct {
	Description string    `json:"description" binding:"required"`
	Discount    float64   `json:"discount" binding:"required"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
	Active      bool      `json:"active"`
}

// GetPromotions lists promotions, optionally only active ones
// GET /api/v1/promotions?active=true
func (ctrl *PromotionController) GetPromotions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	activeOnly := c.Query("active") == "true"

	promotions, err := ctrl.promotionService.GetPromotions(activeOnly)
	if err != nil {
		log.Error("Failed to fetch promotions", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list promotions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"promotions": promotions,
		"count":      len(promotions),
	})
}

// GetPromotion returns a single promotion with its products
// GET /api/v1/promotions/:id
func (ctrl *PromotionController) GetPromotion(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid promotion ID")
		return
	}

	promotion, err := ctrl.promotionService.GetPromotion(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrPromotionNotFound) {
			apperrors.NotFound(c, apperrors.PromotionNotFound, "Promotion not found")
			return
		}
		log.Error("Failed to fetch promotion", err, map[string]interface{}{
			"promotion_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get promotion")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"promotion": promotion,
	})
}

// CreatePromotion creates a promotion, admin only
// POST /api/v1/admin/promotions
func (ctrl *PromotionController) CreatePromotion(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid promotion data")
		return
	}

	promotion := &model.Promotion{
		Description: req.Description,
		Discount:    req.Discount,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Active:      req.Active,
	}

	if err := ctrl.promotionService.CreatePromotion(promotion); err != nil {
		if errors.Is(err, service.ErrInvalidDiscount) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Discount must be a fraction between 0 and 1")
			return
		}
		log.Error("Failed to create promotion", err, map[string]interface{}{
			"description": req.Description,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create promotion")
		return
	}

	log.Info("Promotion created", map[string]interface{}{
		"promotion_id": promotion.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Promotion created successfully",
		"promotion": promotion,
	})
}

// UpdatePromotion updates a promotion, admin only
// PUT /api/v1/admin/promotions/:id
func (ctrl *PromotionController) UpdatePromotion(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid promotion ID")
		return
	}

	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid promotion data")
		return
	}

	promotion := &model.Promotion{
		ID:          uint(id),
		Description: req.Description,
		Discount:    req.Discount,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Active:      req.Active,
	}

	if err := ctrl.promotionService.UpdatePromotion(promotion); err != nil {
		switch {
		case errors.Is(err, service.ErrPromotionNotFound):
			apperrors.NotFound(c, apperrors.PromotionNotFound, "Promotion not found")
		case errors.Is(err, service.ErrInvalidDiscount):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Discount must be a fraction between 0 and 1")
		default:
			log.Error("Failed to update promotion", err, map[string]interface{}{
				"promotion_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update promotion")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Promotion updated successfully",
		"promotion": promotion,
	})
}

// DeletePromotion removes a promotion, admin only
// DELETE /api/v1/admin/promotions/:id
func (ctrl *PromotionController) DeletePromotion(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid promotion ID")
		return
	}

	if err := ctrl.promotionService.DeletePromotion(uint(id)); err != nil {
		if errors.Is(err, service.ErrPromotionNotFound) {
			apperrors.NotFound(c, apperrors.PromotionNotFound, "Promotion not found")
			return
		}
		log.Error("Failed to delete promotion", err, map[string]interface{}{
			"promotion_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete promotion")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotion deleted successfully",
	})
}
