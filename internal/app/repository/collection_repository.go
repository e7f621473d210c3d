package repository

import (
	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"gorm.io/gorm"
)

type CollectionRepository interface {
	Create(collection *model.Collection) error
	FindAll() ([]model.Collection, error)
	FindByID(id uint) (*model.Collection, error)
	Update(collection *model.Collection) error
	Delete(id uint) error
	CountProducts(id uint) (int64, error)
}

type collectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Create(collection *model.Collection) error {
	return r.db.Create(collection).Error
}

// FindAll lists collections annotated with their product count in a
// single query instead of one count per row
func (r *collectionRepository) FindAll() ([]model.Collection, error) {
	var collections []model.Collection
	err := r.db.Model(&model.Collection{}).
		Select("collections.*, COALESCE(product_counts.count, 0) AS products_count").
		Joins("LEFT JOIN (?) AS product_counts ON product_counts.collection_id = collections.id",
			r.db.Table("products").
				Select("products.collection_id, COUNT(*) AS count").
				Where("products.deleted_at IS NULL").
				Group("products.collection_id")).
		Order("collections.title ASC").
		Find(&collections).Error
	if err != nil {
		return nil, err
	}
	return collections, nil
}

func (r *collectionRepository) FindByID(id uint) (*model.Collection, error) {
	var collection model.Collection
	err := r.db.Preload("FeaturedProduct").First(&collection, id).Error
	if err != nil {
		return nil, err
	}

	count, err := r.CountProducts(id)
	if err != nil {
		return nil, err
	}
	collection.ProductsCount = count

	return &collection, nil
}

func (r *collectionRepository) Update(collection *model.Collection) error {
	return r.db.Save(collection).Error
}

func (r *collectionRepository) Delete(id uint) error {
	return r.db.Delete(&model.Collection{}, id).Error
}

func (r *collectionRepository) CountProducts(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("collection_id = ?", id).Count(&count).Error
	return count, err
}
