package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"pgstay-backend/services"
)

// httpStatus maps service errors onto the response codes the API promises:
// business-rule violations are 400, missing records 404, everything
// unexpected 500.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrRoomFull),
		errors.Is(err, services.ErrDuplicateRegistration),
		errors.Is(err, services.ErrSharingBelowOccupancy):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrGuestNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx *gin.Context, logger *logrus.Logger, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		logger.WithError(err).Error("unexpected failure")
		ctx.JSON(status, gin.H{"error": "Internal Server Error"})
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}

// fieldViolation is one entry of a validation failure response.
type fieldViolation struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// bindingErrors unpacks a gin binding failure into per-field violations.
func bindingErrors(err error) []fieldViolation {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]fieldViolation, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, fieldViolation{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed on '%s' validation", fe.Tag()),
			})
		}
		return out
	}
	return []fieldViolation{{Message: err.Error()}}
}

func respondValidation(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, gin.H{"errors": bindingErrors(err)})
}

// paramID parses a numeric path parameter, answering 400 itself on garbage.
func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("invalid %s parameter", name),
		})
		return 0, false
	}
	return uint(id), true
}
