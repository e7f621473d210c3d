package service

import (
	"errors"

	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	"gorm.io/gorm"
)

var ErrReviewNotFound = errors.New("review not found")

type ReviewService interface {
	CreateReview(productID uint, name, description string) (*model.Review, error)
	GetReviews(productID uint, offset, limit int) ([]model.Review, int64, error)
	GetReview(productID, reviewID uint) (*model.Review, error)
	UpdateReview(productID, reviewID uint, name, description string) (*model.Review, error)
	DeleteReview(productID, reviewID uint) error
}

type reviewService struct {
	reviewRepo  *repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(
	reviewRepo *repository.ReviewRepository,
	productRepo repository.ProductRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

func (s *reviewService) ensureProduct(productID uint) error {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) CreateReview(productID uint, name, description string) (*model.Review, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}

	review := &model.Review{
		ProductID:   productID,
		Name:        name,
		Description: description,
	}
	if err := s.reviewRepo.CreateReview(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) GetReviews(productID uint, offset, limit int) ([]model.Review, int64, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, 0, err
	}
	return s.reviewRepo.GetReviewsByProductID(productID, offset, limit)
}

func (s *reviewService) GetReview(productID, reviewID uint) (*model.Review, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetReviewByID(productID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) UpdateReview(productID, reviewID uint, name, description string) (*model.Review, error) {
	review, err := s.GetReview(productID, reviewID)
	if err != nil {
		return nil, err
	}

	review.Name = name
	review.Description = description
	if err := s.reviewRepo.UpdateReview(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) DeleteReview(productID, reviewID uint) error {
	if err := s.ensureProduct(productID); err != nil {
		return err
	}

	if err := s.reviewRepo.DeleteReview(productID, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}
