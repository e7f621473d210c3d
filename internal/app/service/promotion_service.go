package service

import (
	"errors"
	"time"

	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrInvalidDiscount = errors.New("discount must be between 0 and 1")

type PromotionService interface {
	CreatePromotion(promotion *model.Promotion) error
	GetPromotions(activeOnly bool) ([]model.Promotion, error)
	GetPromotion(id uint) (*model.Promotion, error)
	UpdatePromotion(promotion *model.Promotion) error
	DeletePromotion(id uint) error
	DeactivateExpired() (int64, error)
}

type promotionService struct {
	promotionRepo repository.PromotionRepository
}

func NewPromotionService(promotionRepo repository.PromotionRepository) PromotionService {
	return &promotionService{promotionRepo: promotionRepo}
}

func (s *promotionService) CreatePromotion(promotion *model.Promotion) error {
	if promotion.Discount <= 0 || promotion.Discount >= 1 {
		return ErrInvalidDiscount
	}
	return s.promotionRepo.Create(promotion)
}

func (s *promotionService) GetPromotions(activeOnly bool) ([]model.Promotion, error) {
	return s.promotionRepo.FindAll(activeOnly)
}

func (s *promotionService) GetPromotion(id uint) (*model.Promotion, error) {
	promotion, err := s.promotionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromotionNotFound
		}
		return nil, err
	}
	return promotion, nil
}

func (s *promotionService) UpdatePromotion(promotion *model.Promotion) error {
	if promotion.Discount <= 0 || promotion.Discount >= 1 {
		return ErrInvalidDiscount
	}
	if _, err := s.promotionRepo.FindByID(promotion.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPromotionNotFound
		}
		return err
	}
	return s.promotionRepo.Update(promotion)
}

func (s *promotionService) DeletePromotion(id uint) error {
	if _, err := s.promotionRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPromotionNotFound
		}
		return err
	}
	return s.promotionRepo.Delete(id)
}

// DeactivateExpired is run by the scheduler to retire promotions past
// their end date
func (s *promotionService) DeactivateExpired() (int64, error) {
	count, err := s.promotionRepo.DeactivateExpired(time.Now())
	if err != nil {
		logger.Error("Failed to deactivate expired promotions", err, nil)
		return 0, err
	}
	if count > 0 {
		logger.Info("Expired promotions deactivated", map[string]interface{}{
			"count": count,
		})
	}
	return count, nil
}
