// Package models contains data structures for the application's domain models.
package models

import "time"

// User is a registered blog author. Rows are never updated or deleted.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FirstName    string    `gorm:"size:255;not null" json:"first_name"`
	LastName     string    `gorm:"size:255;not null" json:"last_name"`
	Username     string    `gorm:"size:255;not null;uniqueIndex" json:"username"`
	Age          int       `gorm:"not null" json:"age"`
	Email        string    `gorm:"size:255;not null" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName keeps the historical table name.
func (User) TableName() string {
	return "user"
}
