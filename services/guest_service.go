package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pgstay-backend/models"
	"pgstay-backend/utils"
)

// GuestService covers the read side of occupancy (listing, lookups) and
// registration profile updates. Admission and release live on
// OccupancyService.
type GuestService struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewGuestService(db *gorm.DB, logger *logrus.Logger) *GuestService {
	return &GuestService{DB: db, Logger: logger}
}

// Columns the listing may sort by. Request values outside this set fall back
// to the default.
var guestSortColumns = map[string]string{
	"amount":       "rooms.amount",
	"rooms.amount": "rooms.amount",
	"name":         "guests.name",
	"createdAt":    "guests.created_at",
}

// GuestListOptions enumerates the recognized listing filters and their
// defaults: {stay: true, search: "", sortBy: amount, order: desc, page: 1,
// limit: 10}.
type GuestListOptions struct {
	Stay   bool
	Search string
	SortBy string
	Order  string
	Page   int
	Limit  int
}

func DefaultGuestListOptions() GuestListOptions {
	return GuestListOptions{
		Stay:   true,
		Search: "",
		SortBy: "amount",
		Order:  "desc",
		Page:   1,
		Limit:  10,
	}
}

// Normalized clamps paging and resolves sort settings to safe values.
func (o GuestListOptions) Normalized() GuestListOptions {
	if _, ok := guestSortColumns[o.SortBy]; !ok {
		o.SortBy = "amount"
	}
	if o.Order != "asc" {
		o.Order = "desc"
	}
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = 10
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
	return o
}

func (o GuestListOptions) orderClause() string {
	return guestSortColumns[o.SortBy] + " " + o.Order
}

// GuestPage is one page of a filtered listing. Total and TotalPages are
// computed over the filtered set, not the raw building fetch.
type GuestPage struct {
	Data       []models.Guest `json:"data"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	Stay       bool           `json:"stay"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"totalPages"`
}

// List returns the building's guests matching the options. Filtering,
// sorting and pagination are pushed into the query so the result set stays
// bounded.
func (s *GuestService) List(ctx context.Context, buildingID uint, opts GuestListOptions) (*GuestPage, error) {
	opts = opts.Normalized()

	filtered := func() *gorm.DB {
		q := s.DB.WithContext(ctx).Model(&models.Guest{}).
			Joins("LEFT JOIN rooms ON rooms.id = guests.room_id").
			Where("guests.building_id = ? AND guests.stay = ?", buildingID, opts.Stay)
		if opts.Search != "" {
			q = q.Where("LOWER(guests.name) LIKE ?", "%"+strings.ToLower(opts.Search)+"%")
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count guests: %w", err)
	}

	var guests []models.Guest
	err := filtered().
		Select("guests.*").
		Order(opts.orderClause()).
		Offset(utils.PageOffset(opts.Page, opts.Limit)).
		Limit(opts.Limit).
		Preload("Room").
		Preload("InvoiceHistory").
		Preload("PaymentHistory").
		Find(&guests).Error
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}

	return &GuestPage{
		Data:       guests,
		Page:       opts.Page,
		Limit:      opts.Limit,
		Stay:       opts.Stay,
		Total:      total,
		TotalPages: utils.TotalPages(total, opts.Limit),
	}, nil
}

// PendingRegistrations lists the caller's registrations that have not been
// completed yet.
func (s *GuestService) PendingRegistrations(ctx context.Context, userID uint) ([]models.Guest, error) {
	var guests []models.Guest
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND is_complete = ?", userID, false).
		Find(&guests).Error
	if err != nil {
		return nil, fmt.Errorf("list pending registrations: %w", err)
	}
	return guests, nil
}

// Fields the profile update may touch. Identity, ownership and lifecycle
// columns are off limits.
var guestUpdatableColumns = map[string]bool{
	"name": true, "profile": true, "gender": true, "age": true, "dob": true,
	"phone_no": true, "email": true, "address": true, "id_number": true,
	"id_pics": true, "qualification": true, "guardian": true,
	"guardian_no": true, "is_complete": true,
}

// UpdateRegistration fills in the profile of the guest registered by userID
// in the building. Unknown columns in updates are dropped.
func (s *GuestService) UpdateRegistration(ctx context.Context, userID, buildingID uint, updates map[string]interface{}) (*models.Guest, error) {
	for col := range updates {
		if !guestUpdatableColumns[col] {
			delete(updates, col)
		}
	}
	if len(updates) > 0 {
		res := s.DB.WithContext(ctx).Model(&models.Guest{}).
			Where("user_id = ? AND building_id = ?", userID, buildingID).
			Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("update registration: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrGuestNotFound
		}
	}

	var guest models.Guest
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND building_id = ?", userID, buildingID).
		First(&guest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGuestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reload guest: %w", err)
	}
	return &guest, nil
}

// Check returns the guest a finder has registered in the building, or nil
// when there is none.
func (s *GuestService) Check(ctx context.Context, buildingID, finderID uint) (*models.Guest, error) {
	var guest models.Guest
	err := s.DB.WithContext(ctx).
		Where("building_id = ? AND finder_id = ?", buildingID, finderID).
		First(&guest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("check registration: %w", err)
	}
	return &guest, nil
}
