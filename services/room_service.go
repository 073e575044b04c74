package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pgstay-backend/models"
)

// RoomService handles the owner-scoped room lifecycle. Creating and deleting
// a room also maintains the parent building's room-reference list, inside
// the same transaction as the room write.
type RoomService struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewRoomService(db *gorm.DB, logger *logrus.Logger) *RoomService {
	return &RoomService{DB: db, Logger: logger}
}

// Create persists the room and appends its id to the building's room list.
func (s *RoomService) Create(ctx context.Context, room *models.Room) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return fmt.Errorf("create room: %w", err)
		}

		var building models.Building
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", room.BuildingID).
			First(&building).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No building record to attach to; the room still exists.
			s.Logger.WithField("building_id", room.BuildingID).
				Warn("create room: building record missing, skipping attach")
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetch building: %w", err)
		}

		rooms := models.AppendID(building.Rooms, room.ID)
		if err := tx.Model(&models.Building{}).Where("id = ?", building.ID).
			Update("rooms", rooms).Error; err != nil {
			return fmt.Errorf("attach room to building: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Logger.WithFields(logrus.Fields{
		"room_id":     room.ID,
		"building_id": room.BuildingID,
		"owner_id":    room.OwnerID,
	}).Info("room created")
	return nil
}

// ListByOwner returns the owner's rooms in the building with their occupant
// guests attached.
func (s *RoomService) ListByOwner(ctx context.Context, ownerID, buildingID uint) ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.WithContext(ctx).
		Where("owner_id = ? AND building_id = ?", ownerID, buildingID).
		Order("room_no ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	ids := make([]uint, 0)
	for _, room := range rooms {
		ids = append(ids, room.Occupants...)
	}
	if len(ids) == 0 {
		return rooms, nil
	}

	var guests []models.Guest
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&guests).Error; err != nil {
		return nil, fmt.Errorf("load occupants: %w", err)
	}
	byID := make(map[uint]models.Guest, len(guests))
	for _, g := range guests {
		byID[g.ID] = g
	}
	for i := range rooms {
		for _, id := range rooms[i].Occupants {
			if g, ok := byID[id]; ok {
				rooms[i].Guests = append(rooms[i].Guests, g)
			}
		}
	}
	return rooms, nil
}

// Fields an owner may change on a room. The occupant list is owned by the
// occupancy service and cannot be written here.
var roomUpdatableColumns = map[string]bool{
	"room_no": true, "sharing": true, "amount": true, "pics": true,
}

// Update applies updates to the room scoped by (roomID, ownerID,
// buildingID) and returns the fresh record.
func (s *RoomService) Update(ctx context.Context, roomID, ownerID, buildingID uint, updates map[string]interface{}) (*models.Room, error) {
	for col := range updates {
		if !roomUpdatableColumns[col] {
			delete(updates, col)
		}
	}

	var room models.Room
	err := s.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND building_id = ?", roomID, ownerID, buildingID).
		First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch room: %w", err)
	}

	// Capacity may not be shrunk below the current occupant count.
	if v, ok := updates["sharing"].(int); ok && v < len(room.Occupants) {
		return nil, ErrSharingBelowOccupancy
	}

	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(&room).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update room: %w", err)
		}
	}
	return &room, nil
}

// Delete removes the room and detaches its reference from the parent
// building, both in one transaction. Returns the deleted room.
func (s *RoomService) Delete(ctx context.Context, roomID, ownerID, buildingID uint) (*models.Room, error) {
	var room models.Room
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND owner_id = ? AND building_id = ?", roomID, ownerID, buildingID).
			First(&room).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		if err != nil {
			return fmt.Errorf("fetch room: %w", err)
		}

		if err := tx.Delete(&models.Room{}, room.ID).Error; err != nil {
			return fmt.Errorf("delete room: %w", err)
		}

		var building models.Building
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", buildingID).
			First(&building).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetch building: %w", err)
		}

		rooms := models.RemoveID(building.Rooms, room.ID)
		if err := tx.Model(&models.Building{}).Where("id = ?", building.ID).
			Update("rooms", rooms).Error; err != nil {
			return fmt.Errorf("detach room from building: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.WithFields(logrus.Fields{
		"room_id":     roomID,
		"building_id": buildingID,
	}).Info("room deleted")
	return &room, nil
}
