package models

import (
	"time"

	"gorm.io/datatypes"
)

type Guest struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// One registration per finder per building (enforced by the composite
	// unique index as well as the pre-insert lookup).
	FinderID   uint  `gorm:"uniqueIndex:idx_guests_finder_building" json:"finderId"`
	UserID     uint  `gorm:"index" json:"userId"`
	BuildingID uint  `gorm:"uniqueIndex:idx_guests_finder_building" json:"buildingId"`
	RoomID     *uint `gorm:"index;column:room_id" json:"roomId"`

	Name          string     `json:"name"`
	Gender        string     `json:"gender"`
	DOB           *time.Time `gorm:"column:dob" json:"dob"`
	Age           int        `json:"age"`
	PhoneNo       string     `gorm:"size:20" json:"phoneNo"`
	Email         string     `gorm:"size:150" json:"email"`
	Address       string     `gorm:"type:text" json:"address"`
	Qualification string     `json:"qualification"`
	Guardian      string     `json:"guardian"`
	GuardianNo    string     `gorm:"size:20" json:"guardianNo"`

	// Identity document number plus the uploaded scans of it.
	IDNumber string                      `gorm:"size:32;column:id_number" json:"idNumber"`
	IDPics   datatypes.JSONSlice[string] `gorm:"column:id_pics" json:"idPics"`
	Profile  string                      `gorm:"size:255" json:"profile"`

	Stay       bool `gorm:"default:true" json:"stay"`
	IsComplete bool `gorm:"default:false" json:"isComplete"`

	InvoiceHistory []Invoice `gorm:"foreignKey:GuestID" json:"invoiceHistory,omitempty"`
	PaymentHistory []Payment `gorm:"foreignKey:GuestID" json:"paymentHistory,omitempty"`

	// Back-reference only. The room's occupant list is authoritative for
	// capacity; this relation exists for display and sorting.
	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}
