package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"pgstay-backend/middleware"
	"pgstay-backend/models"
	"pgstay-backend/services"
)

type GuestController struct {
	Occupancy   *services.OccupancyService
	Guests      *services.GuestService
	Revenue     *services.RevenueService
	Attachments services.AttachmentStore
	Logger      *logrus.Logger
}

func NewGuestController(
	occupancy *services.OccupancyService,
	guests *services.GuestService,
	revenue *services.RevenueService,
	attachments services.AttachmentStore,
	logger *logrus.Logger,
) *GuestController {
	return &GuestController{
		Occupancy:   occupancy,
		Guests:      guests,
		Revenue:     revenue,
		Attachments: attachments,
		Logger:      logger,
	}
}

type admitGuestForm struct {
	Name          string `form:"name" binding:"required"`
	Gender        string `form:"gender"`
	DOB           string `form:"dob" binding:"omitempty,datetime=2006-01-02"`
	PhoneNo       string `form:"phoneNo" binding:"required,min=7,max=15"`
	Email         string `form:"email" binding:"omitempty,email"`
	Address       string `form:"address" binding:"required"`
	IDNumber      string `form:"idNumber" binding:"required"`
	Qualification string `form:"qualification"`
	Guardian      string `form:"guardian"`
	GuardianNo    string `form:"guardianNo"`
}

func (f *admitGuestForm) toModel() *models.Guest {
	guest := &models.Guest{
		Name:          f.Name,
		Gender:        f.Gender,
		PhoneNo:       f.PhoneNo,
		Email:         f.Email,
		Address:       f.Address,
		IDNumber:      f.IDNumber,
		Qualification: f.Qualification,
		Guardian:      f.Guardian,
		GuardianNo:    f.GuardianNo,
	}
	if f.DOB != "" {
		if dob, err := time.Parse("2006-01-02", f.DOB); err == nil {
			guest.DOB = &dob
		}
	}
	return guest
}

// AdmitGuest handles POST /api/buildings/:buildingid/rooms/:roomid/guests.
// Multipart: guest fields plus optional "idPics" identity-document scans.
func (c *GuestController) AdmitGuest(ctx *gin.Context) {
	buildingID, ok := paramID(ctx, "buildingid")
	if !ok {
		return
	}
	roomID, ok := paramID(ctx, "roomid")
	if !ok {
		return
	}
	finderID := middleware.UserID(ctx)

	var form admitGuestForm
	if err := ctx.ShouldBind(&form); err != nil {
		respondValidation(ctx, err)
		return
	}

	guest := form.toModel()
	guest.IDPics = datatypes.JSONSlice[string]{}
	if mf, err := ctx.MultipartForm(); err == nil && mf != nil {
		for _, fh := range mf.File["idPics"] {
			url, err := c.Attachments.Save(ctx.Request.Context(), fh, "id-docs")
			if err != nil {
				respondError(ctx, c.Logger, err)
				return
			}
			guest.IDPics = append(guest.IDPics, url)
		}
	}

	admitted, err := c.Occupancy.Admit(ctx.Request.Context(), buildingID, roomID, finderID, guest)
	if err != nil {
		respondError(ctx, c.Logger, err)
		return
	}
	ctx.JSON(http.StatusOK, admitted)
}

// ListGuests handles GET /api/buildings/:buildingid/guests with stay,
// search, sortBy, order, page and limit query parameters.
func (c *GuestController) ListGuests(ctx *gin.Context) {
	buildingID, ok := paramID(ctx, "buildingid")
	if !ok {
		return
	}

	opts := services.DefaultGuestListOptions()
	opts.Stay = ctx.DefaultQuery("stay", "true") != "false"
	opts.Search = ctx.Query("search")
	if v := ctx.Query("sortBy"); v != "" {
		opts.SortBy = v
	}
	if v := ctx.Query("order"); v != "" {
		opts.Order = v
	}
	if v, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil {
		opts.Page = v
	}
	if v, err := strconv.Atoi(ctx.DefaultQuery("limit", "10")); err == nil {
		opts.Limit = v
	}

	page, err := c.Guests.List(ctx.Request.Context(), buildingID, opts)
	if err != nil {
		respondError(ctx, c.Logger, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

// ReleaseGuest handles DELETE /api/buildings/:buildingid/guests/:id. The
// guest record survives; only the stay flag and the room slot change.
func (c *GuestController) ReleaseGuest(ctx *gin.Context) {
	buildingID, ok := paramID(ctx, "buildingid")
	if !ok {
		return
	}
	guestID, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var body struct {
		Stay bool `json:"stay"`
	}
	// An absent body means stay=false; a body that is present but broken
	// is a client error.
	if err := ctx.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		respondValidation(ctx, err)
		return
	}

	guest, err := c.Occupancy.Release(ctx.Request.Context(), guestID, buildingID, body.Stay)
	if err != nil {
		respondError(ctx, c.Logger, err)
		return
	}
	ctx.JSON(http.StatusOK, guest)
}

type updateGuestForm struct {
	Name          string `form:"name"`
	Gender        string `form:"gender"`
	DOB           string `form:"dob" binding:"omitempty,datetime=2006-01-02"`
	Age           int    `form:"age"`
	PhoneNo       string `form:"phoneNo"`
	Address       string `form:"address"`
	IDNumber      string `form:"idNumber"`
	Qualification string `form:"qualification"`
	Guardian      string `form:"guardian"`
	GuardianNo    string `form:"guardianNo"`
	// Pointer so an absent field is distinguishable from an explicit false;
	// a partial update must not flip a completed registration back.
	IsComplete *bool `form:"isComplete"`
}

// UpdateGuest handles PUT /api/buildings/:buildingid/guests: the caller
// fills in their own registration, optionally with a "profile" picture and
// an extra "idPic" document scan.
func (c *GuestController) UpdateGuest(ctx *gin.Context) {
	buildingID, ok := paramID(ctx, "buildingid")
	if !ok {
		return
	}
	userID := middleware.UserID(ctx)

	var form updateGuestForm
	if err := ctx.ShouldBind(&form); err != nil {
		respondValidation(ctx, err)
		return
	}

	updates := map[string]interface{}{}
	if form.IsComplete != nil {
		updates["is_complete"] = *form.IsComplete
	}
	setIfPresent := func(col, val string) {
		if val != "" {
			updates[col] = val
		}
	}
	setIfPresent("name", form.Name)
	setIfPresent("gender", form.Gender)
	setIfPresent("phone_no", form.PhoneNo)
	setIfPresent("address", form.Address)
	setIfPresent("id_number", form.IDNumber)
	setIfPresent("qualification", form.Qualification)
	setIfPresent("guardian", form.Guardian)
	setIfPresent("guardian_no", form.GuardianNo)
	if form.Age > 0 {
		updates["age"] = form.Age
	}
	if form.DOB != "" {
		if dob, err := time.Parse("2006-01-02", form.DOB); err == nil {
			updates["dob"] = dob
		}
	}

	if fh, err := ctx.FormFile("profile"); err == nil {
		url, err := c.Attachments.Save(ctx.Request.Context(), fh, "profiles")
		if err != nil {
			respondError(ctx, c.Logger, err)
			return
		}
		updates["profile"] = url
	}
	if fh, err := ctx.FormFile("idPic"); err == nil {
		url, err := c.Attachments.Save(ctx.Request.Context(), fh, "id-docs")
		if err != nil {
			respondError(ctx, c.Logger, err)
			return
		}
		updates["id_pics"] = datatypes.JSONSlice[string]{url}
	}

	guest, err := c.Guests.UpdateRegistration(ctx.Request.Context(), userID, buildingID, updates)
	if err != nil {
		respondError(ctx, c.Logger, err)
		return
	}
	ctx.JSON(http.StatusOK, guest)
}

// CheckGuest handles GET /api/buildings/:buildingid/guests/check/:finderid.
// Answers the finder's registration in this building, or null.
func (c *GuestController) CheckGuest(ctx *gin.Context) {
	buildingID, ok := paramID(ctx, "buildingid")
	if !ok {
		return
	}
	finderID, ok := paramID(ctx, "finderid")
	if !ok {
		return
	}

	guest, err := c.Guests.Check(ctx.Request.Context(), buildingID, finderID)
	if err != nil {
		respondError(ctx, c.Logger, err)
		return
	}
	ctx.JSON(http.StatusOK, guest)
}

// PendingGuests handles GET /api/guests/pending: the caller's incomplete
// registrations.
func (c *GuestController) PendingGuests(ctx *gin.Context) {
	userID := middleware.UserID(ctx)

	guests, err := c.Guests.PendingRegistrations(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, c.Logger, err)
		return
	}
	ctx.JSON(http.StatusOK, guests)
}

// BuildingStatus handles GET /api/buildings/:buildingid/status: monthly
// revenue plus the raw payment status list.
func (c *GuestController) BuildingStatus(ctx *gin.Context) {
	buildingID, ok := paramID(ctx, "buildingid")
	if !ok {
		return
	}

	report, err := c.Revenue.BuildingStatus(ctx.Request.Context(), buildingID)
	if err != nil {
		respondError(ctx, c.Logger, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}
