package models

import (
	"time"

	"gorm.io/datatypes"
)

type Room struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	BuildingID uint `gorm:"index" json:"buildingId"`
	OwnerID    uint `gorm:"index" json:"ownerId"`

	RoomNo  string  `gorm:"size:50" json:"roomNo" binding:"required"`
	Sharing int     `json:"sharing" binding:"required,gt=0"`
	Amount  float64 `json:"amount" binding:"required,gt=0"`

	// Authoritative occupant list. Mutated only by the occupancy service
	// under a row lock; len(Occupants) never exceeds Sharing.
	Occupants datatypes.JSONSlice[uint] `json:"guest"`

	Pics datatypes.JSONSlice[string] `json:"pic"`

	// Populated by the room listing, not persisted.
	Guests []Guest `gorm:"-" json:"guests,omitempty"`
}

// IsFull reports whether the room has no free slot left.
func (r *Room) IsFull() bool {
	return len(r.Occupants) >= r.Sharing
}
