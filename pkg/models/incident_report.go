package models

import (
	"time"

	"github.com/google/uuid"
)

// IncidentSeverity classifies a health/safety/environment incident.
type IncidentSeverity string

const (
	IncidentSeverityMinor    IncidentSeverity = "MINOR"
	IncidentSeverityModerate IncidentSeverity = "MODERATE"
	IncidentSeverityMajor    IncidentSeverity = "MAJOR"
	IncidentSeverityCritical IncidentSeverity = "CRITICAL"
)

// Valid reports whether the severity is one of the enumerated values.
func (s IncidentSeverity) Valid() bool {
	switch s {
	case IncidentSeverityMinor, IncidentSeverityModerate,
		IncidentSeverityMajor, IncidentSeverityCritical:
		return true
	}
	return false
}

// IncidentReport records a workplace or environmental incident.
// ParticipantIDs and DocumentIDs are multi-select slots with set semantics:
// the same entity id never appears twice. Stored in incident_reports table.
type IncidentReport struct {
	ID             uuid.UUID        `json:"id"`
	Date           Date             `json:"date"`
	Time           TimeOfDay        `json:"time,omitempty"`
	Severity       IncidentSeverity `json:"severity"`
	Location       string           `json:"location,omitempty"`
	Description    string           `json:"description"`
	DepartmentID   uuid.UUID        `json:"department_id"`
	ParticipantIDs []uuid.UUID      `json:"participant_ids,omitempty"`
	DocumentIDs    []uuid.UUID      `json:"document_ids,omitempty"`
	AttachmentURLs []string         `json:"attachment_urls,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}
