package model

import (
	"time"

	"github.com/storefront-labs/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

type Product struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Title        string         `gorm:"type:varchar(255);not null" json:"title"`
	Slug         string         `gorm:"type:varchar(255);index" json:"slug"`
	Description  string         `gorm:"type:text" json:"description"`
	UnitPrice    float64        `gorm:"not null" json:"unit_price"`
	Inventory    int            `gorm:"default:0" json:"inventory"`
	CollectionID uint           `gorm:"not null;index" json:"collection_id"`
	ImageURL     string         `json:"image_url"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"last_update"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Collection Collection  `gorm:"foreignKey:CollectionID" json:"collection,omitempty"`
	Promotions []Promotion `gorm:"many2many:product_promotions;" json:"promotions,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
	Reviews    []Review    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// BeforeSave keeps the slug in sync with the title
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Title != "" {
		p.Slug = util.Slugify(p.Title)
	}
	return nil
}
