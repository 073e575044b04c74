package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestAppendID(t *testing.T) {
	list := datatypes.JSONSlice[uint]{}

	list = AppendID(list, 3)
	list = AppendID(list, 4)
	assert.Equal(t, datatypes.JSONSlice[uint]{3, 4}, list)

	// Appending an existing id is a no-op; the list stays a set.
	list = AppendID(list, 3)
	assert.Equal(t, datatypes.JSONSlice[uint]{3, 4}, list)
}

func TestRemoveID(t *testing.T) {
	list := datatypes.JSONSlice[uint]{3, 4, 5}

	list = RemoveID(list, 4)
	assert.Equal(t, datatypes.JSONSlice[uint]{3, 5}, list)

	// Removal is by identity, absent ids change nothing.
	list = RemoveID(list, 99)
	assert.Equal(t, datatypes.JSONSlice[uint]{3, 5}, list)

	assert.Empty(t, RemoveID(datatypes.JSONSlice[uint]{}, 1))
}

func TestContainsID(t *testing.T) {
	list := datatypes.JSONSlice[uint]{3, 4}
	assert.True(t, ContainsID(list, 3))
	assert.False(t, ContainsID(list, 5))
	assert.False(t, ContainsID(nil, 3))
}

func TestRoomIsFull(t *testing.T) {
	room := Room{Sharing: 2, Occupants: datatypes.JSONSlice[uint]{1}}
	assert.False(t, room.IsFull())

	room.Occupants = AppendID(room.Occupants, 2)
	assert.True(t, room.IsFull())
}
