package models

import "time"

// Customer is an optional buyer attached to a sale.
type Customer struct {
	ID          uint      `gorm:"primaryKey"               json:"id"`
	Name        string    `gorm:"size:255;not null;index"  json:"name"`
	Address     string    `gorm:"size:500;not null"        json:"address"`
	PhoneNumber string    `gorm:"size:15;not null"         json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
