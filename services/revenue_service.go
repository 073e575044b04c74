package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pgstay-backend/models"
)

// RevenueService reports payment status and monthly revenue per building.
type RevenueService struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewRevenueService(db *gorm.DB, logger *logrus.Logger) *RevenueService {
	return &RevenueService{DB: db, Logger: logger}
}

// PaymentStatus is the projection reported per payment.
type PaymentStatus struct {
	ID        uint      `json:"id"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MonthRevenue is the revenue collected in one calendar month (1-12).
type MonthRevenue struct {
	Month  int     `json:"month"`
	Amount float64 `json:"amount"`
}

// StatusReport bundles the revenue breakdown with the raw payment list.
type StatusReport struct {
	Revenue []MonthRevenue  `json:"revenue"`
	Status  []PaymentStatus `json:"status"`
}

// BuildingStatus fetches all payments against the building's invoices and
// reduces the successful ones into per-month totals.
func (s *RevenueService) BuildingStatus(ctx context.Context, buildingID uint) (*StatusReport, error) {
	var payments []PaymentStatus
	err := s.DB.WithContext(ctx).Model(&models.Payment{}).
		Select("payments.id, payments.status, payments.amount, payments.updated_at").
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.building_id = ?", buildingID).
		Scan(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("load building payments: %w", err)
	}

	return &StatusReport{
		Revenue: MonthlyRevenue(payments),
		Status:  payments,
	}, nil
}

// MonthlyRevenue sums the amounts of successful payments per calendar
// month, ordered by month.
func MonthlyRevenue(payments []PaymentStatus) []MonthRevenue {
	totals := make(map[int]float64)
	for _, p := range payments {
		if p.Status != models.PaymentSuccessful {
			continue
		}
		totals[int(p.UpdatedAt.Month())] += p.Amount
	}

	months := make([]int, 0, len(totals))
	for m := range totals {
		months = append(months, m)
	}
	sort.Ints(months)

	out := make([]MonthRevenue, 0, len(months))
	for _, m := range months {
		out = append(out, MonthRevenue{Month: m, Amount: totals[m]})
	}
	return out
}
