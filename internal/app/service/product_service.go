package service

import (
	"errors"

	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductReferenced = errors.New("product is referenced by order items")
	ErrPromotionNotFound = errors.New("promotion not found")
)

type ProductService interface {
	CreateProduct(product *model.Product) error
	GetProducts(filter repository.ProductFilter) ([]model.Product, int64, error)
	GetProduct(id uint) (*model.Product, error)
	UpdateProduct(product *model.Product) error
	DeleteProduct(id uint) error
	AttachPromotion(productID, promotionID uint) error
	DetachPromotion(productID, promotionID uint) error
}

type productService struct {
	productRepo    repository.ProductRepository
	collectionRepo repository.CollectionRepository
	promotionRepo  repository.PromotionRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	collectionRepo repository.CollectionRepository,
	promotionRepo repository.PromotionRepository,
) ProductService {
	return &productService{
		productRepo:    productRepo,
		collectionRepo: collectionRepo,
		promotionRepo:  promotionRepo,
	}
}

func (s *productService) CreateProduct(product *model.Product) error {
	logger.Info("Creating product", map[string]interface{}{
		"title":         product.Title,
		"unit_price":    product.UnitPrice,
		"collection_id": product.CollectionID,
	})

	if _, err := s.collectionRepo.FindByID(product.CollectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot create product: collection not found", map[string]interface{}{
				"collection_id": product.CollectionID,
			})
			return ErrCollectionNotFound
		}
		return err
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"title": product.Title,
		})
		return err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
	})
	return nil
}

func (s *productService) GetProducts(filter repository.ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Fetching products", map[string]interface{}{
		"collection_id": filter.CollectionID,
		"search":        filter.Search,
	})

	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to fetch products", err, nil)
		return nil, 0, err
	}

	return products, total, nil
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) UpdateProduct(product *model.Product) error {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
	})

	existing, err := s.productRepo.FindByID(product.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if product.CollectionID != existing.CollectionID {
		if _, err := s.collectionRepo.FindByID(product.CollectionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCollectionNotFound
			}
			return err
		}
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

// DeleteProduct refuses to delete a product that appears on any order,
// otherwise order history would lose its line items
func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	count, err := s.productRepo.CountOrderItems(id)
	if err != nil {
		logger.Error("Failed to count order items for product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	if count > 0 {
		logger.Warn("Cannot delete product: referenced by order items", map[string]interface{}{
			"product_id":       id,
			"order_item_count": count,
		})
		return ErrProductReferenced
	}

	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *productService) AttachPromotion(productID, promotionID uint) error {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if _, err := s.promotionRepo.FindByID(promotionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPromotionNotFound
		}
		return err
	}
	return s.productRepo.AttachPromotion(productID, promotionID)
}

func (s *productService) DetachPromotion(productID, promotionID uint) error {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.productRepo.DetachPromotion(productID, promotionID)
}
