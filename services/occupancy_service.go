package services

import (
	"context"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pgstay-backend/models"
)

// OccupancyService orchestrates guest admission and removal. It is the only
// writer of Room.Occupants: every mutation runs inside a transaction with the
// room row locked, so the capacity check and the occupant-list update are
// atomic and two concurrent admissions cannot both take the last slot.
type OccupancyService struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewOccupancyService(db *gorm.DB, logger *logrus.Logger) *OccupancyService {
	return &OccupancyService{DB: db, Logger: logger}
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *gomysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// Admit registers guest into the given room. The guest row is created first
// and the occupant list appended second; both writes commit together, so a
// failure on either side leaves no partial state behind.
//
// Returns ErrDuplicateRegistration when the finder already has a guest in
// the building, ErrRoomNotFound when the room does not exist in the
// building, and ErrRoomFull when the occupant list is at capacity.
func (s *OccupancyService) Admit(ctx context.Context, buildingID, roomID, finderID uint, guest *models.Guest) (*models.Guest, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Guest
		err := tx.Select("id").
			Where("finder_id = ? AND building_id = ?", finderID, buildingID).
			First(&existing).Error
		if err == nil {
			return ErrDuplicateRegistration
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check existing registration: %w", err)
		}

		var room models.Room
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND building_id = ?", roomID, buildingID).
			First(&room).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		if err != nil {
			return fmt.Errorf("fetch room: %w", err)
		}
		if room.IsFull() {
			return ErrRoomFull
		}

		guest.BuildingID = buildingID
		guest.RoomID = &room.ID
		guest.FinderID = finderID
		guest.UserID = finderID
		guest.Stay = true
		if err := tx.Create(guest).Error; err != nil {
			if isDuplicateEntry(err) {
				// Lost a race with another registration by the same finder.
				return ErrDuplicateRegistration
			}
			return fmt.Errorf("create guest: %w", err)
		}

		occupants := models.AppendID(room.Occupants, guest.ID)
		if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).
			Update("occupants", occupants).Error; err != nil {
			return fmt.Errorf("append occupant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.WithFields(logrus.Fields{
		"guest_id":    guest.ID,
		"building_id": buildingID,
		"room_id":     roomID,
		"finder_id":   finderID,
	}).Info("guest admitted")
	return guest, nil
}

// Release soft-removes a guest: the stay flag is set to the requested value
// and the guest's id is taken out of its room's occupant list, freeing the
// slot. The guest record itself is kept for history. Releasing an already
// released guest is safe; the list update becomes a no-op.
func (s *OccupancyService) Release(ctx context.Context, guestID, buildingID uint, stay bool) (*models.Guest, error) {
	var guest models.Guest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND building_id = ?", guestID, buildingID).
			First(&guest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGuestNotFound
		}
		if err != nil {
			return fmt.Errorf("fetch guest: %w", err)
		}

		if err := tx.Model(&guest).Update("stay", stay).Error; err != nil {
			return fmt.Errorf("update stay flag: %w", err)
		}
		guest.Stay = stay

		// RoomID stays in place as a historical back-reference.
		if guest.RoomID == nil {
			return nil
		}

		var room models.Room
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND building_id = ?", *guest.RoomID, buildingID).
			First(&room).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The recorded room is gone, so there is no slot to free.
			s.Logger.WithFields(logrus.Fields{
				"guest_id": guestID,
				"room_id":  *guest.RoomID,
			}).Warn("release: recorded room no longer exists")
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetch room: %w", err)
		}

		if !models.ContainsID(room.Occupants, guest.ID) {
			// Already detached earlier; keep the stay update only.
			return nil
		}
		occupants := models.RemoveID(room.Occupants, guest.ID)
		if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).
			Update("occupants", occupants).Error; err != nil {
			return fmt.Errorf("remove occupant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.WithFields(logrus.Fields{
		"guest_id":    guestID,
		"building_id": buildingID,
		"stay":        stay,
	}).Info("guest released")
	return &guest, nil
}
