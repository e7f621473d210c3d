package model

import (
	"time"

	"gorm.io/gorm"
)

type MembershipTier string

const (
	MembershipBronze MembershipTier = "B"
	MembershipSilver MembershipTier = "S"
	MembershipGold   MembershipTier = "G"
)

// Customer is the storefront profile attached one-to-one to a User
type Customer struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	UserID     uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Phone      string         `gorm:"type:varchar(30)" json:"phone"`
	BirthDate  *time.Time     `json:"birth_date,omitempty"`
	Membership MembershipTier `gorm:"type:varchar(1);default:'B'" json:"membership"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	User    User     `gorm:"foreignKey:UserID" json:"-"`
	Address *Address `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"address,omitempty"`
	Orders  []Order  `gorm:"foreignKey:CustomerID" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}

type Address struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CustomerID uint      `gorm:"uniqueIndex;not null" json:"customer_id"`
	Street     string    `gorm:"not null" json:"street"`
	City       string    `gorm:"not null" json:"city"`
	Zip        string    `gorm:"type:varchar(20)" json:"zip"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

func (Address) TableName() string {
	return "addresses"
}
