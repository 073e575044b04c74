package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"pgstay-backend/middleware"
	"pgstay-backend/models"
	"pgstay-backend/services"
)

type RoomController struct {
	Rooms       *services.RoomService
	Attachments services.AttachmentStore
	Logger      *logrus.Logger
}

func NewRoomController(rooms *services.RoomService, attachments services.AttachmentStore, logger *logrus.Logger) *RoomController {
	return &RoomController{Rooms: rooms, Attachments: attachments, Logger: logger}
}

type createRoomForm struct {
	RoomNo  string  `form:"roomNo" binding:"required"`
	Sharing int     `form:"sharing" binding:"required,gt=0"`
	Amount  float64 `form:"amount" binding:"required,gt=0"`
}

// CreateRoom handles POST /api/buildings/:buildingid/rooms. Multipart: room
// fields plus optional "pic" picture files.
func (c *RoomController) CreateRoom(ctx *gin.Context) {
	buildingID, ok := paramID(ctx, "buildingid")
	if !ok {
		return
	}
	ownerID := middleware.UserID(ctx)

	var form createRoomForm
	if err := ctx.ShouldBind(&form); err != nil {
		respondValidation(ctx, err)
		return
	}

	pics := datatypes.JSONSlice[string]{}
	if mf, err := ctx.MultipartForm(); err == nil && mf != nil {
		for _, fh := range mf.File["pic"] {
			url, err := c.Attachments.Save(ctx.Request.Context(), fh, "rooms")
			if err != nil {
				respondError(ctx, c.Logger, err)
				return
			}
			pics = append(pics, url)
		}
	}

	room := &models.Room{
		BuildingID: buildingID,
		OwnerID:    ownerID,
		RoomNo:     form.RoomNo,
		Sharing:    form.Sharing,
		Amount:     form.Amount,
		Occupants:  datatypes.JSONSlice[uint]{},
		Pics:       pics,
	}
	if err := c.Rooms.Create(ctx.Request.Context(), room); err != nil {
		respondError(ctx, c.Logger, err)
		return
	}
	ctx.JSON(http.StatusOK, room)
}

// ListRooms handles GET /api/buildings/:buildingid/rooms: the caller's
// rooms with their occupants attached.
func (c *RoomController) ListRooms(ctx *gin.Context) {
	buildingID, ok := paramID(ctx, "buildingid")
	if !ok {
		return
	}
	ownerID := middleware.UserID(ctx)

	rooms, err := c.Rooms.ListByOwner(ctx.Request.Context(), ownerID, buildingID)
	if err != nil {
		respondError(ctx, c.Logger, err)
		return
	}
	ctx.JSON(http.StatusOK, rooms)
}

type updateRoomBody struct {
	RoomNo  *string   `json:"roomNo"`
	Sharing *int      `json:"sharing" binding:"omitempty,gt=0"`
	Amount  *float64  `json:"amount" binding:"omitempty,gt=0"`
	Pics    *[]string `json:"pic"`
}

// UpdateRoom handles PUT/PATCH /api/buildings/:buildingid/rooms/:roomid.
func (c *RoomController) UpdateRoom(ctx *gin.Context) {
	buildingID, ok := paramID(ctx, "buildingid")
	if !ok {
		return
	}
	roomID, ok := paramID(ctx, "roomid")
	if !ok {
		return
	}
	ownerID := middleware.UserID(ctx)

	var body updateRoomBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondValidation(ctx, err)
		return
	}

	updates := map[string]interface{}{}
	if body.RoomNo != nil {
		updates["room_no"] = *body.RoomNo
	}
	if body.Sharing != nil {
		updates["sharing"] = *body.Sharing
	}
	if body.Amount != nil {
		updates["amount"] = *body.Amount
	}
	if body.Pics != nil {
		updates["pics"] = datatypes.JSONSlice[string](*body.Pics)
	}

	room, err := c.Rooms.Update(ctx.Request.Context(), roomID, ownerID, buildingID, updates)
	if err != nil {
		respondError(ctx, c.Logger, err)
		return
	}
	ctx.JSON(http.StatusOK, room)
}

// UploadRoomPics handles POST /api/buildings/:buildingid/rooms/pics:
// uploads picture files and returns their URLs without touching any room.
func (c *RoomController) UploadRoomPics(ctx *gin.Context) {
	if _, ok := paramID(ctx, "buildingid"); !ok {
		return
	}

	mf, err := ctx.MultipartForm()
	if err != nil || mf == nil || len(mf.File["pic"]) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "no 'pic' files provided"})
		return
	}

	urls := make([]string, 0, len(mf.File["pic"]))
	for _, fh := range mf.File["pic"] {
		url, err := c.Attachments.Save(ctx.Request.Context(), fh, "rooms")
		if err != nil {
			respondError(ctx, c.Logger, err)
			return
		}
		urls = append(urls, url)
	}
	ctx.JSON(http.StatusOK, urls)
}

// DeleteRoom handles DELETE /api/buildings/:buildingid/rooms/:roomid and
// returns the removed room.
func (c *RoomController) DeleteRoom(ctx *gin.Context) {
	buildingID, ok := paramID(ctx, "buildingid")
	if !ok {
		return
	}
	roomID, ok := paramID(ctx, "roomid")
	if !ok {
		return
	}
	ownerID := middleware.UserID(ctx)

	room, err := c.Rooms.Delete(ctx.Request.Context(), roomID, ownerID, buildingID)
	if err != nil {
		respondError(ctx, c.Logger, err)
		return
	}
	ctx.JSON(http.StatusOK, room)
}
