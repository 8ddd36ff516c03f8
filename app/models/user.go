package models

import "time"

// Level is a user's authorization level.
type Level string

const (
	LevelAdministrator Level = "administrator"
	LevelCashier       Level = "cashier"
)

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	return l == LevelAdministrator || l == LevelCashier
}

// User is a staff account. Deleted users are kept for sale history and can
// no longer sign in.
type User struct {
	ID                uint      `gorm:"primaryKey"                   json:"id"`
	Name              string    `gorm:"size:255;not null"            json:"name"`
	Username          string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Password          string    `gorm:"size:255;not null"            json:"-"`
	PasswordUpdatedAt time.Time `gorm:"not null"                     json:"passwordUpdatedAt"`
	Level             Level     `gorm:"size:20;not null"             json:"level"`
	Deleted           bool      `gorm:"not null;default:false"       json:"deleted"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
