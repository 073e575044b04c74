package models

import "time"

// Owner is the account that manages buildings and rooms. Authentication is
// handled by the upstream gateway; this record backs seeding and ownership
// scoping only.
type Owner struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FullName string `json:"fullName"`
	Email    string `gorm:"size:150;uniqueIndex" json:"email"`
	Password string `gorm:"size:255" json:"-"`
}
