package model

import (
	"time"

	"gorm.io/gorm"
)

// Entity types a tag can be attached to. The generic relation below
// keys on these discriminators plus a row id, so tags do not need a
// foreign key per entity type.
const (
	TaggableProduct    = "product"
	TaggableCollection = "collection"
	TaggableCustomer   = "customer"
)

type Tag struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Label     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"label"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []TaggedItem `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Tag) TableName() string {
	return "tags"
}

// TaggedItem associates a tag with a row of an arbitrary entity type
type TaggedItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	TagID     uint      `gorm:"not null;uniqueIndex:idx_tagged_items_tag_object" json:"tag_id"`
	LabelType string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_tagged_items_tag_object;index:idx_tagged_items_object" json:"label_type"`
	ObjectID  uint      `gorm:"not null;uniqueIndex:idx_tagged_items_tag_object;index:idx_tagged_items_object" json:"object_id"`
	CreatedAt time.Time `json:"created_at"`

	Tag Tag `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}

func (TaggedItem) TableName() string {
	return "tagged_items"
}
