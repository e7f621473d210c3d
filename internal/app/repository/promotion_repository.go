package repository

import (
	"time"

	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"gorm.io/gorm"
)

type PromotionRepository interface {
	Create(promotion *model.Promotion) error
	FindAll(activeOnly bool) ([]model.Promotion, error)
	FindByID(id uint) (*model.Promotion, error)
	Update(promotion *model.Promotion) error
	Delete(id uint) error
	DeactivateExpired(now time.Time) (int64, error)
}

type promotionRepository struct {
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) PromotionRepository {
	return &promotionRepository{db: db}
}

func (r *promotionRepository) Create(promotion *model.Promotion) error {
	return r.db.Create(promotion).Error
}

func (r *promotionRepository) FindAll(activeOnly bool) ([]model.Promotion, error) {
	var promotions []model.Promotion
	query := r.db.Order("starts_at DESC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

func (r *promotionRepository) FindByID(id uint) (*model.Promotion, error) {
	var promotion model.Promotion
	if err := r.db.Preload("Products").First(&promotion, id).Error; err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (r *promotionRepository) Update(promotion *model.Promotion) error {
	return r.db.Save(promotion).Error
}

func (r *promotionRepository) Delete(id uint) error {
	return r.db.Delete(&model.Promotion{}, id).Error
}

// DeactivateExpired flips off promotions whose end date has passed and
// returns how many rows changed
func (r *promotionRepository) DeactivateExpired(now time.Time) (int64, error) {
	result := r.db.Model(&model.Promotion{}).
		Where("active = ? AND ends_at < ?", true, now).
		Update("active", false)
	return result.RowsAffected, result.Error
}
