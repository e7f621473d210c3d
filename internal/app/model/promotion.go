package model

import (
	"time"

	"gorm.io/gorm"
)

// Promotion is a discount applied to a set of products
type Promotion struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Description string         `gorm:"type:varchar(255);not null" json:"description"`
	Discount    float64        `gorm:"not null" json:"discount"` // fraction, e.g. 0.2 for 20% off
	StartsAt    time.Time      `json:"starts_at"`
	EndsAt      time.Time      `json:"ends_at"`
	Active      bool           `gorm:"default:true;index" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Products []Product `gorm:"many2many:product_promotions;" json:"products,omitempty"`
}

func (Promotion) TableName() string {
	return "promotions"
}
