package models

import "time"

// Payment statuses as stored.
const (
	PaymentSuccessful = "Successful"
	PaymentPending    = "Pending"
	PaymentFailed     = "Failed"
)

type Payment struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	InvoiceID uint `gorm:"index" json:"invoiceId"`
	GuestID   uint `gorm:"index" json:"guestId"`

	Amount float64 `json:"amount"`
	Status string  `gorm:"size:32" json:"status"`
}
