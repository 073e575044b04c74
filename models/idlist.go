package models

import "gorm.io/datatypes"

// Helpers for the JSON id-reference lists carried by Room.Occupants and
// Building.Rooms. Both behave as sets: appends are duplicate-free and
// removals are by identity.

// AppendID returns list with id appended, unless it is already present.
func AppendID(list datatypes.JSONSlice[uint], id uint) datatypes.JSONSlice[uint] {
	for _, existing := range list {
		if existing == id {
			return list
		}
	}
	return append(list, id)
}

// RemoveID returns list without id. Removing an absent id is a no-op.
func RemoveID(list datatypes.JSONSlice[uint], id uint) datatypes.JSONSlice[uint] {
	out := make(datatypes.JSONSlice[uint], 0, len(list))
	for _, existing := range list {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// ContainsID reports whether id is present in list.
func ContainsID(list datatypes.JSONSlice[uint], id uint) bool {
	for _, existing := range list {
		if existing == id {
			return true
		}
	}
	return false
}
