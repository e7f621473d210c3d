package service

import (
	"errors"

	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrCollectionNotEmpty = errors.New("collection contains products")
)

type CollectionService interface {
	CreateCollection(collection *model.Collection) error
	GetCollections() ([]model.Collection, error)
	GetCollection(id uint) (*model.Collection, error)
	UpdateCollection(collection *model.Collection) error
	DeleteCollection(id uint) error
}

type collectionService struct {
	collectionRepo repository.CollectionRepository
}

func NewCollectionService(collectionRepo repository.CollectionRepository) CollectionService {
	return &collectionService{collectionRepo: collectionRepo}
}

func (s *collectionService) CreateCollection(collection *model.Collection) error {
	if err := s.collectionRepo.Create(collection); err != nil {
		logger.Error("Failed to create collection", err, map[string]interface{}{
			"title": collection.Title,
		})
		return err
	}
	return nil
}

func (s *collectionService) GetCollections() ([]model.Collection, error) {
	return s.collectionRepo.FindAll()
}

func (s *collectionService) GetCollection(id uint) (*model.Collection, error) {
	collection, err := s.collectionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	return collection, nil
}

func (s *collectionService) UpdateCollection(collection *model.Collection) error {
	if _, err := s.collectionRepo.FindByID(collection.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollectionNotFound
		}
		return err
	}
	return s.collectionRepo.Update(collection)
}

// DeleteCollection refuses to delete a collection that still has
// products assigned
func (s *collectionService) DeleteCollection(id uint) error {
	if _, err := s.collectionRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollectionNotFound
		}
		return err
	}

	count, err := s.collectionRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Cannot delete collection: products still assigned", map[string]interface{}{
			"collection_id": id,
			"product_count": count,
		})
		return ErrCollectionNotEmpty
	}

	return s.collectionRepo.Delete(id)
}
