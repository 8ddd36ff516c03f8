package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is the header of a committed transaction. TotalPrice always equals
// the sum of its detail subtotals.
type Sale struct {
	ID         uint            `gorm:"primaryKey"                                      json:"id"`
	Time       time.Time       `gorm:"not null;index"                                  json:"time"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(16,0);not null"                     json:"totalPrice"`
	CustomerID *uint           `gorm:"index"                                           json:"customerId"`
	Customer   *Customer       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer,omitempty"`
	UserID     uint            `gorm:"not null;index"                                  json:"userId"`
	User       *User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"user,omitempty"`
	Details    []SaleDetail    `gorm:"foreignKey:SaleID"                               json:"details"`
}

// SaleDetail is one line of a sale. Subtotal is the product price at commit
// time multiplied by Quantity.
type SaleDetail struct {
	ID        uint            `gorm:"primaryKey"                                      json:"id"`
	SaleID    uint            `gorm:"not null;index"                                  json:"saleId"`
	Sale      *Sale           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"  json:"-"`
	ProductID uint            `gorm:"not null;index"                                  json:"productId"`
	Product   *Product        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"product,omitempty"`
	Quantity  int             `gorm:"not null"                                        json:"quantity"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(16,0);not null"                     json:"subtotal"`
}
