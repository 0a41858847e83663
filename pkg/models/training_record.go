package models

import (
	"time"

	"github.com/google/uuid"
)

// TrainingRecord tracks a training session and its attendees.
// AttendeeIDs is a multi-select slot with set semantics.
// Stored in training_records table.
type TrainingRecord struct {
	ID          uuid.UUID   `json:"id"`
	Topic       string      `json:"topic"`
	Date        Date        `json:"date"`
	TrainerID   *uuid.UUID  `json:"trainer_id,omitempty"`
	AttendeeIDs []uuid.UUID `json:"attendee_ids,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
