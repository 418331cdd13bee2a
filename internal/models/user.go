// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User is a credential record. Password holds the bcrypt hash and is never
// serialized.
type User struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"not null" json:"name"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	Password string    `gorm:"not null" json:"-"`
	Avatar   string    `json:"avatar"`
	Date     time.Time `gorm:"autoCreateTime" json:"date"`
}
