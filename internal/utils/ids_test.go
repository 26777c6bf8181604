package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		assert.Len(t, id, 26)
		assert.True(t, IsValidID(id))
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNewID_Sorted(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.Less(t, a, b)
}

func TestNewID_Hook(t *testing.T) {
	orig := NewIDHook
	defer func() { NewIDHook = orig }()

	NewIDHook = func() (string, bool) { return "fixed", true }
	assert.Equal(t, "fixed", NewID())

	NewIDHook = func() (string, bool) { return "", false }
	assert.True(t, IsValidID(NewID()))
}

func TestIsValidID(t *testing.T) {
	assert.False(t, IsValidID(""))
	assert.False(t, IsValidID("not-an-id"))
	assert.True(t, IsValidID("01ARZ3NDEKTSV4RRFFQ69G5FAV"))
}
