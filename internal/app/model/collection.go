package model

import (
	"time"

	"gorm.io/gorm"
)

type Collection struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	Title             string         `gorm:"type:varchar(255);not null" json:"title"`
	FeaturedProductID *uint          `gorm:"index" json:"featured_product_id,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	FeaturedProduct *Product  `gorm:"foreignKey:FeaturedProductID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"featured_product,omitempty"`
	Products        []Product `gorm:"foreignKey:CollectionID" json:"-"`

	// Populated by the repository's count annotation, not a column
	ProductsCount int64 `gorm:"->;-:migration" json:"products_count"`
}

func (Collection) TableName() string {
	return "collections"
}
