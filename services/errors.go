package services

import "errors"

// Business errors surfaced to the HTTP layer. Anything else bubbling out of
// a service is an unexpected store failure and maps to a 500.
var (
	ErrRoomNotFound          = errors.New("room_not_found")
	ErrGuestNotFound         = errors.New("guest_not_found")
	ErrRoomFull              = errors.New("room_full")
	ErrSharingBelowOccupancy = errors.New("sharing_below_occupancy")
	ErrDuplicateRegistration = errors.New("guest_already_registered")
	ErrUploadFailed          = errors.New("upload_failed")
)
