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

type TagController struct {
	tagService service.TagService
}

func NewTagController(tagService service.TagService) *TagController {
	return &TagController{tagService: tagService}
}

type TagRequest struct {
	Label string `json:"label" binding:"required"`
}

type TagObjectRequest struct {
	LabelType string `json:"label_type" binding:"required"`
	ObjectID  uint   `json:"object_id" binding:"required"`
}

// GetTags lists all tags
// GET /api/v1/tags
func (ctrl *TagController) GetTags(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tags, err := ctrl.tagService.GetTags()
	if err != nil {
		log.Error("Failed to fetch tags", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list tags")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags":  tags,
		"count": len(tags),
	})
}

// GetTag returns a single tag
// GET /api/v1/tags/:id
func (ctrl *TagController) GetTag(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid tag ID")
		return
	}

	tag, err := ctrl.tagService.GetTag(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			apperrors.NotFound(c, apperrors.TagNotFound, "Tag not found")
			return
		}
		log.Error("Failed to fetch tag", err, map[string]interface{}{
			"tag_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get tag")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tag": tag,
	})
}

// CreateTag creates a tag, admin only
// POST /api/v1/admin/tags
func (ctrl *TagController) CreateTag(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid tag data")
		return
	}

	tag, err := ctrl.tagService.CreateTag(req.Label)
	if err != nil {
		if errors.Is(err, service.ErrTagAlreadyExists) {
			apperrors.Conflict(c, apperrors.TagLabelExists, "A tag with this label already exists")
			return
		}
		log.Error("Failed to create tag", err, map[string]interface{}{
			"label": req.Label,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create tag")
		return
	}

	log.Info("Tag created", map[string]interface{}{
		"tag_id": tag.ID,
		"label":  tag.Label,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tag created successfully",
		"tag":     tag,
	})
}

// UpdateTag renames a tag, admin only
// PUT /api/v1/admin/tags/:id
func (ctrl *TagController) UpdateTag(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid tag ID")
		return
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid tag data")
		return
	}

	tag, err := ctrl.tagService.UpdateTag(uint(id), req.Label)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagNotFound):
			apperrors.NotFound(c, apperrors.TagNotFound, "Tag not found")
		case errors.Is(err, service.ErrTagAlreadyExists):
			apperrors.Conflict(c, apperrors.TagLabelExists, "A tag with this label already exists")
		default:
			log.Error("Failed to update tag", err, map[string]interface{}{
				"tag_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update tag")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tag updated successfully",
		"tag":     tag,
	})
}

// DeleteTag removes a tag and all of its assignments, admin only
// DELETE /api/v1/admin/tags/:id
func (ctrl *TagController) DeleteTag(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid tag ID")
		return
	}

	if err := ctrl.tagService.DeleteTag(uint(id)); err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			apperrors.NotFound(c, apperrors.TagNotFound, "Tag not found")
			return
		}
		log.Error("Failed to delete tag", err, map[string]interface{}{
			"tag_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete tag")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tag deleted successfully",
	})
}

// TagObject attaches a tag to a product, collection or customer, admin only
// POST /api/v1/admin/tags/:id/items
func (ctrl *TagController) TagObject(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid tag ID")
		return
	}

	var req TagObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid tag assignment data")
		return
	}

	item, err := ctrl.tagService.TagObject(uint(id), req.LabelType, req.ObjectID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagNotFound):
			apperrors.NotFound(c, apperrors.TagNotFound, "Tag not found")
		case errors.Is(err, service.ErrInvalidLabelType):
			apperrors.BadRequest(c, apperrors.TagInvalidType, "Label type must be product, collection or customer")
		case errors.Is(err, service.ErrTaggedItemGone):
			apperrors.NotFound(c, apperrors.TaggedItemNotFound, "Tagged object not found")
		case errors.Is(err, service.ErrTaggedItemExists):
			apperrors.Conflict(c, apperrors.ResourceAlreadyExists, "Object already carries this tag")
		default:
			log.Error("Failed to tag object", err, map[string]interface{}{
				"tag_id":     id,
				"label_type": req.LabelType,
				"object_id":  req.ObjectID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tag object")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Object tagged successfully",
		"item":    item,
	})
}

// UntagObject detaches a tag from an object, admin only
// DELETE /api/v1/admin/tags/:id/items
func (ctrl *TagController) UntagObject(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid tag ID")
		return
	}

	var req TagObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid tag assignment data")
		return
	}

	if err := ctrl.tagService.UntagObject(uint(id), req.LabelType, req.ObjectID); err != nil {
		switch {
		case errors.Is(err, service.ErrTagNotFound):
			apperrors.NotFound(c, apperrors.TagNotFound, "Tag not found")
		case errors.Is(err, service.ErrInvalidLabelType):
			apperrors.BadRequest(c, apperrors.TagInvalidType, "Label type must be product, collection or customer")
		case errors.Is(err, service.ErrTaggedItemGone):
			apperrors.NotFound(c, apperrors.TaggedItemNotFound, "Tag assignment not found")
		default:
			log.Error("Failed to untag object", err, map[string]interface{}{
				"tag_id":     id,
				"label_type": req.LabelType,
				"object_id":  req.ObjectID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "untag object")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Object untagged successfully",
	})
}

// GetTagItems lists every object carrying a tag
// GET /api/v1/tags/:id/items
func (ctrl *TagController) GetTagItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid tag ID")
		return
	}

	items, err := ctrl.tagService.GetTagItems(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			apperrors.NotFound(c, apperrors.TagNotFound, "Tag not found")
			return
		}
		log.Error("Failed to fetch tag items", err, map[string]interface{}{
			"tag_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get tag items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetProductTags lists the tags attached to a product
// GET /api/v1/products/:id/tags
func (ctrl *TagController) GetProductTags(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	items, err := ctrl.tagService.GetObjectTags(model.TaggableProduct, uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrTaggedItemGone) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product tags", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get product tags")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetObjectTags lists the tag assignments on a single object
// GET /api/v1/tags/items?label_type=product&object_id=1
func (ctrl *TagController) GetObjectTags(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	labelType := c.Query("label_type")
	objectID, err := strconv.ParseUint(c.Query("object_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid object ID")
		return
	}

	items, err := ctrl.tagService.GetObjectTags(labelType, uint(objectID))
	if err != nil {
		if errors.Is(err, service.ErrInvalidLabelType) {
			apperrors.BadRequest(c, apperrors.TagInvalidType, "Label type must be product, collection or customer")
			return
		}
		if errors.Is(err, service.ErrTaggedItemGone) {
			apperrors.NotFound(c, apperrors.TaggedItemNotFound, "Tagged object not found")
			return
		}
		log.Error("Failed to fetch object tags", err, map[string]interface{}{
			"label_type": labelType,
			"object_id":  objectID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get object tags")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}
