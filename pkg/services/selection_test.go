package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestToggleSelection_AddsWhenAbsent(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	result := ToggleSelection([]uuid.UUID{a}, b)

	assert.Equal(t, []uuid.UUID{a, b}, result)
}

func TestToggleSelection_RemovesWhenPresent(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	result := ToggleSelection([]uuid.UUID{a, b, c}, b)

	assert.Equal(t, []uuid.UUID{a, c}, result)
}

func TestToggleSelection_DoubleToggleRestores(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	original := []uuid.UUID{a, b}

	result := ToggleSelection(ToggleSelection(original, b), b)

	assert.Equal(t, original, result)
}

func TestToggleSelection_EmptySelection(t *testing.T) {
	id := uuid.New()

	result := ToggleSelection(nil, id)

	assert.Equal(t, []uuid.UUID{id}, result)
}

func TestNormalizeSelection_RemovesDuplicatesPreservingOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	result := NormalizeSelection([]uuid.UUID{a, b, a, c, b})

	assert.Equal(t, []uuid.UUID{a, b, c}, result)
}

func TestNormalizeSelection_EmptyAndNil(t *testing.T) {
	assert.Nil(t, NormalizeSelection(nil))
	assert.Empty(t, NormalizeSelection([]uuid.UUID{}))
}
