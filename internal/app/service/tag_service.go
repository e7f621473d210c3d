package service

import (
	"errors"

	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrTagNotFound      = errors.New("tag not found")
	ErrTagAlreadyExists = errors.New("tag label already exists")
	ErrInvalidLabelType = errors.New("unknown label type")
	ErrTaggedItemExists = errors.New("item already carries this tag")
	ErrTaggedItemGone   = errors.New("tagged item not found")
)

type TagService interface {
	CreateTag(label string) (*model.Tag, error)
	GetTags() ([]model.Tag, error)
	GetTag(id uint) (*model.Tag, error)
	UpdateTag(id uint, label string) (*model.Tag, error)
	DeleteTag(id uint) error
	TagObject(tagID uint, labelType string, objectID uint) (*model.TaggedItem, error)
	UntagObject(tagID uint, labelType string, objectID uint) error
	GetObjectTags(labelType string, objectID uint) ([]model.TaggedItem, error)
	GetTagItems(tagID uint) ([]model.TaggedItem, error)
}

type tagService struct {
	tagRepo        repository.TagRepository
	productRepo    repository.ProductRepository
	collectionRepo repository.CollectionRepository
	customerRepo   repository.CustomerRepository
}

func NewTagService(
	tagRepo repository.TagRepository,
	productRepo repository.ProductRepository,
	collectionRepo repository.CollectionRepository,
	customerRepo repository.CustomerRepository,
) TagService {
	return &tagService{
		tagRepo:        tagRepo,
		productRepo:    productRepo,
		collectionRepo: collectionRepo,
		customerRepo:   customerRepo,
	}
}

func (s *tagService) CreateTag(label string) (*model.Tag, error) {
	existing, err := s.tagRepo.FindByLabel(label)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTagAlreadyExists
	}

	tag := &model.Tag{Label: label}
	if err := s.tagRepo.Create(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) GetTags() ([]model.Tag, error) {
	return s.tagRepo.FindAll()
}

func (s *tagService) GetTag(id uint) (*model.Tag, error) {
	tag, err := s.tagRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagService) UpdateTag(id uint, label string) (*model.Tag, error) {
	tag, err := s.GetTag(id)
	if err != nil {
		return nil, err
	}

	existing, err := s.tagRepo.FindByLabel(label)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, ErrTagAlreadyExists
	}

	tag.Label = label
	if err := s.tagRepo.Update(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) DeleteTag(id uint) error {
	if _, err := s.GetTag(id); err != nil {
		return err
	}
	return s.tagRepo.Delete(id)
}

// ensureObject checks the tag target actually exists for the given
// discriminator before a tagged_items row is written
func (s *tagService) ensureObject(labelType string, objectID uint) error {
	var err error
	switch labelType {
	case model.TaggableProduct:
		_, err = s.productRepo.FindByID(objectID)
	case model.TaggableCollection:
		_, err = s.collectionRepo.FindByID(objectID)
	case model.TaggableCustomer:
		_, err = s.customerRepo.FindByID(objectID)
	default:
		return ErrInvalidLabelType
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaggedItemGone
		}
		return err
	}
	return nil
}

func (s *tagService) TagObject(tagID uint, labelType string, objectID uint) (*model.TaggedItem, error) {
	logger.Debug("Tagging object", map[string]interface{}{
		"tag_id":     tagID,
		"label_type": labelType,
		"object_id":  objectID,
	})

	tag, err := s.GetTag(tagID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureObject(labelType, objectID); err != nil {
		return nil, err
	}

	item := &model.TaggedItem{
		TagID:     tagID,
		LabelType: labelType,
		ObjectID:  objectID,
	}
	if err := s.tagRepo.TagItem(item); err != nil {
		return nil, err
	}
	item.Tag = *tag
	return item, nil
}

func (s *tagService) UntagObject(tagID uint, labelType string, objectID uint) error {
	if _, err := s.GetTag(tagID); err != nil {
		return err
	}
	if err := s.tagRepo.UntagItem(tagID, labelType, objectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaggedItemGone
		}
		return err
	}
	return nil
}

func (s *tagService) GetObjectTags(labelType string, objectID uint) ([]model.TaggedItem, error) {
	if err := s.ensureObject(labelType, objectID); err != nil {
		return nil, err
	}
	return s.tagRepo.FindItemsByObject(labelType, objectID)
}

func (s *tagService) GetTagItems(tagID uint) ([]model.TaggedItem, error) {
	if _, err := s.GetTag(tagID); err != nil {
		return nil, err
	}
	return s.tagRepo.FindItemsByTag(tagID)
}
