package services

import "github.com/google/uuid"

// ToggleSelection adds id to the selection if absent, or removes it if
// present. Multi-select slots use set semantics over an ordered array:
// toggling the same id twice restores the original selection.
func ToggleSelection(selection []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, existing := range selection {
		if existing == id {
			return append(selection[:i:i], selection[i+1:]...)
		}
	}
	return append(selection, id)
}

// NormalizeSelection removes duplicate ids while preserving order, so the
// same entity never appears twice in a stored selection.
func NormalizeSelection(selection []uuid.UUID) []uuid.UUID {
	if len(selection) == 0 {
		return selection
	}

	seen := make(map[uuid.UUID]struct{}, len(selection))
	result := selection[:0:0]
	for _, id := range selection {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
