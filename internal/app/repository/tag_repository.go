package repository

import (
	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"gorm.io/gorm"
)

type TagRepository interface {
	Create(tag *model.Tag) error
	FindAll() ([]model.Tag, error)
	FindByID(id uint) (*model.Tag, error)
	FindByLabel(label string) (*model.Tag, error)
	Update(tag *model.Tag) error
	Delete(id uint) error
	TagItem(item *model.TaggedItem) error
	UntagItem(tagID uint, labelType string, objectID uint) error
	FindItemsByObject(labelType string, objectID uint) ([]model.TaggedItem, error)
	FindItemsByTag(tagID uint) ([]model.TaggedItem, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(tag *model.Tag) error {
	return r.db.Create(tag).Error
}

func (r *tagRepository) FindAll() ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.Order("label ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) FindByID(id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindByLabel(label string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.Where("label = ?", label).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) Update(tag *model.Tag) error {
	return r.db.Save(tag).Error
}

func (r *tagRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&model.TaggedItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Tag{}, id).Error
	})
}

func (r *tagRepository) TagItem(item *model.TaggedItem) error {
	return r.db.Create(item).Error
}

func (r *tagRepository) UntagItem(tagID uint, labelType string, objectID uint) error {
	result := r.db.Where("tag_id = ? AND label_type = ? AND object_id = ?", tagID, labelType, objectID).
		Delete(&model.TaggedItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tagRepository) FindItemsByObject(labelType string, objectID uint) ([]model.TaggedItem, error) {
	var items []model.TaggedItem
	err := r.db.Where("label_type = ? AND object_id = ?", labelType, objectID).
		Preload("Tag").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *tagRepository) FindItemsByTag(tagID uint) ([]model.TaggedItem, error) {
	var items []model.TaggedItem
	err := r.db.Where("tag_id = ?", tagID).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
