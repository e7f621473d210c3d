package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	"github.com/storefront-labs/storefront-backend/internal/app/service"
	apperrors "github.com/storefront-labs/storefront-backend/internal/errors"
	"github.com/storefront-labs/storefront-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
	exportService  service.ExportService
}

func NewProductController(productService service.ProductService, exportService service.ExportService) *ProductController {
	return &ProductController{
		productService: productService,
		exportService:  exportService,
	}
}

type CreateProductRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	UnitPrice    float64 `json:"unit_price" binding:"required,gt=0"`
	Inventory    int     `json:"inventory" binding:"gte=0"`
	CollectionID uint    `json:"collection_id" binding:"required"`
	ImageURL     string  `json:"image_url"`
}

type UpdateProductRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	UnitPrice    float64 `json:"unit_price" binding:"required,gt=0"`
	Inventory    int     `json:"inventory" binding:"gte=0"`
	CollectionID uint    `json:"collection_id" binding:"required"`
	ImageURL     string  `json:"image_url"`
}

func parsePagination(c *gin.Context) (limit, offset int) {
	limit = 20
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

func buildProductFilter(c *gin.Context) repository.ProductFilter {
	filter := repository.ProductFilter{
		Search: c.Query("search"),
	}

	if v := c.Query("collection_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			cid := uint(id)
			filter.CollectionID = &cid
		}
	}
	if v := c.Query("unit_price_gt"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.UnitPriceGt = &price
		}
	}
	if v := c.Query("unit_price_lt"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.UnitPriceLt = &price
		}
	}

	// ordering accepts e.g. "unit_price" or "-last_update"
	if ordering := c.Query("ordering"); ordering != "" {
		ascending := true
		if ordering[0] == '-' {
			ascending = false
			ordering = ordering[1:]
		}
		switch ordering {
		case "unit_price", "title", "last_update":
			filter.SortBy = repository.ProductSort(ordering)
			filter.SortAscending = ascending
		}
	}

	filter.Limit, filter.Offset = parsePagination(c)
	return filter
}

// GetProducts lists products with filtering, search and pagination
// GET /api/v1/products
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := buildProductFilter(c)

	log.Debug("Fetching product list", map[string]interface{}{
		"collection_id": filter.CollectionID,
		"search":        filter.Search,
		"limit":         filter.Limit,
		"offset":        filter.Offset,
	})

	products, total, err := ctrl.productService.GetProducts(filter)
	if err != nil {
		log.Error("Failed to fetch products", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
		"total":    total,
	})
}

// GetProduct returns a single product
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetProduct(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// CreateProduct creates a new product
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}

	product := &model.Product{
		Title:        req.Title,
		Description:  req.Description,
		UnitPrice:    req.UnitPrice,
		Inventory:    req.Inventory,
		CollectionID: req.CollectionID,
		ImageURL:     req.ImageURL,
	}

	if err := ctrl.productService.CreateProduct(product); err != nil {
		if errors.Is(err, service.ErrCollectionNotFound) {
			apperrors.BadRequest(c, apperrors.CollectionNotFound, "Collection not found")
			return
		}
		log.Error("Failed to create product", err, map[string]interface{}{
			"title": req.Title,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create product")
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct updates an existing product
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update product request", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}

	product := &model.Product{
		ID:           uint(id),
		Title:        req.Title,
		Description:  req.Description,
		UnitPrice:    req.UnitPrice,
		Inventory:    req.Inventory,
		CollectionID: req.CollectionID,
		ImageURL:     req.ImageURL,
	}

	if err := ctrl.productService.UpdateProduct(product); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrCollectionNotFound) {
			apperrors.BadRequest(c, apperrors.CollectionNotFound, "Collection not found")
			return
		}
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update product")
		return
	}

	log.Info("Product updated", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct deletes a product unless order items reference it
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.productService.DeleteProduct(uint(id)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrProductReferenced) {
			log.Warn("Product delete rejected: order items reference it", map[string]interface{}{
				"product_id": id,
			})
			apperrors.MethodNotAllowed(c, apperrors.ProductReferenced, "Product cannot be deleted because it is associated with an order item")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete product")
		return
	}

	log.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// AttachPromotion links a promotion to a product
// POST /api/v1/products/:id/promotions/:promotion_id
func (ctrl *ProductController) AttachPromotion(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}
	promotionID, err := strconv.ParseUint(c.Param("promotion_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid promotion ID")
		return
	}

	if err := ctrl.productService.AttachPromotion(uint(id), uint(promotionID)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrPromotionNotFound) {
			apperrors.NotFound(c, apperrors.PromotionNotFound, "Promotion not found")
			return
		}
		log.Error("Failed to attach promotion", err, map[string]interface{}{
			"product_id":   id,
			"promotion_id": promotionID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "attach promotion")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotion attached successfully",
	})
}

// DetachPromotion unlinks a promotion from a product
// DELETE /api/v1/products/:id/promotions/:promotion_id
func (ctrl *ProductController) DetachPromotion(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}
	promotionID, err := strconv.ParseUint(c.Param("promotion_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid promotion ID")
		return
	}

	if err := ctrl.productService.DetachPromotion(uint(id), uint(promotionID)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to detach promotion", err, map[string]interface{}{
			"product_id":   id,
			"promotion_id": promotionID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "detach promotion")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotion detached successfully",
	})
}

// ExportCatalog streams the catalog as an XLSX workbook
// GET /api/v1/products/export
func (ctrl *ProductController) ExportCatalog(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filename := fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	count, err := ctrl.exportService.ExportCatalog(c.Writer)
	if err != nil {
		log.Error("Failed to export catalog", err, nil)
		apperrors.InternalError(c, "Failed to export catalog")
		return
	}

	log.Info("Catalog exported", map[string]interface{}{
		"product_count": count,
	})
}
