package models

import (
	"time"

	"gorm.io/datatypes"
)

// Building owns a list of room references. The list is kept consistent with
// the rooms table by the room service: a created room is appended, a deleted
// room is detached, both inside the same transaction as the room write.
type Building struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	OwnerID uint   `gorm:"index" json:"ownerId"`
	Name    string `gorm:"size:150" json:"name"`
	Address string `gorm:"type:text" json:"address"`

	Rooms datatypes.JSONSlice[uint] `json:"rooms"`
}
