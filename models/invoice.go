package models

import "time"

type Invoice struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	BuildingID uint `gorm:"index" json:"buildingId"`
	GuestID    uint `gorm:"index" json:"guestId"`

	Amount  float64    `json:"amount"`
	DueDate *time.Time `json:"dueDate"`
	Status  string     `gorm:"size:32" json:"status"`
}
