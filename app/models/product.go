package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. Archived products stay in the table so past
// sale lines keep their reference, but they can no longer be sold.
type Product struct {
	ID        uint            `gorm:"primaryKey"                       json:"id"`
	Name      string          `gorm:"size:255;not null;index"          json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(16,0);not null"      json:"price"`
	Stock     int             `gorm:"not null"                         json:"stock"`
	Archived  bool            `gorm:"not null;default:false;index"     json:"archived"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
