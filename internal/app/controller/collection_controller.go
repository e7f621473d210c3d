package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/app/service"
	apperrors "github.com/storefront-labs/storefront-backend/internal/errors"
	"github.com/storefront-labs/storefront-backend/internal/middleware"
)

type CollectionController struct {
	collectionService service.CollectionService
}

func NewCollectionController(collectionService service.CollectionService) *CollectionController {
	return &CollectionController{collectionService: collectionService}
}

type CollectionRequest struct {
	Title             string `json:"title" binding:"required"`
	FeaturedProductID *uint  `json:"featured_product_id"`
}

// GetCollections lists collections with their product counts
// GET /api/v1/collections
func (ctrl *CollectionController) GetCollections(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	collections, err := ctrl.collectionService.GetCollections()
	if err != nil {
		log.Error("Failed to fetch collections", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list collections")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collections": collections,
		"count":       len(collections),
	})
}

// GetCollection returns a single collection
// GET /api/v1/collections/:id
func (ctrl *CollectionController) GetCollection(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid collection ID")
		return
	}

	collection, err := ctrl.collectionService.GetCollection(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrCollectionNotFound) {
			apperrors.NotFound(c, apperrors.CollectionNotFound, "Collection not found")
			return
		}
		log.Error("Failed to fetch collection", err, map[string]interface{}{
			"collection_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get collection")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collection": collection,
	})
}

// CreateCollection creates a new collection
// POST /api/v1/collections
func (ctrl *CollectionController) CreateCollection(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid collection data")
		return
	}

	collection := &model.Collection{
		Title:             req.Title,
		FeaturedProductID: req.FeaturedProductID,
	}

	if err := ctrl.collectionService.CreateCollection(collection); err != nil {
		log.Error("Failed to create collection", err, map[string]interface{}{
			"title": req.Title,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create collection")
		return
	}

	log.Info("Collection created", map[string]interface{}{
		"collection_id": collection.ID,
		"title":         collection.Title,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Collection created successfully",
		"collection": collection,
	})
}

// UpdateCollection updates an existing collection
// PUT /api/v1/collections/:id
func (ctrl *CollectionController) UpdateCollection(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid collection ID")
		return
	}

	var req CollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid collection data")
		return
	}

	collection := &model.Collection{
		ID:                uint(id),
		Title:             req.Title,
		FeaturedProductID: req.FeaturedProductID,
	}

	if err := ctrl.collectionService.UpdateCollection(collection); err != nil {
		if errors.Is(err, service.ErrCollectionNotFound) {
			apperrors.NotFound(c, apperrors.CollectionNotFound, "Collection not found")
			return
		}
		log.Error("Failed to update collection", err, map[string]interface{}{
			"collection_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update collection")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Collection updated successfully",
		"collection": collection,
	})
}

// DeleteCollection deletes a collection unless products still belong to it
// DELETE /api/v1/collections/:id
func (ctrl *CollectionController) DeleteCollection(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid collection ID")
		return
	}

	if err := ctrl.collectionService.DeleteCollection(uint(id)); err != nil {
		if errors.Is(err, service.ErrCollectionNotFound) {
			apperrors.NotFound(c, apperrors.CollectionNotFound, "Collection not found")
			return
		}
		if errors.Is(err, service.ErrCollectionNotEmpty) {
			log.Warn("Collection delete rejected: products still assigned", map[string]interface{}{
				"collection_id": id,
			})
			apperrors.MethodNotAllowed(c, apperrors.CollectionNotEmpty, "Collection cannot be deleted because it includes one or more products")
			return
		}
		log.Error("Failed to delete collection", err, map[string]interface{}{
			"collection_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete collection")
		return
	}

	log.Info("Collection deleted", map[string]interface{}{
		"collection_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Collection deleted successfully",
	})
}
