package models

import (
	"time"

	"github.com/google/uuid"
)

// ImpactAssessment evaluates the environmental/social risk of an activity.
// Significance is derived from Intensity and Probability via Classify and
// recomputed on every create and update; client-supplied values for it are
// ignored. Stored in impact_assessments table.
type ImpactAssessment struct {
	ID           uuid.UUID    `json:"id"`
	Activity     string       `json:"activity"`
	Aspect       string       `json:"aspect"`
	Impact       string       `json:"impact"`
	Intensity    Intensity    `json:"intensity"`
	Probability  Probability  `json:"probability"`
	Significance Significance `json:"significance"`
	Mitigation   string       `json:"mitigation,omitempty"`
	DepartmentID uuid.UUID    `json:"department_id"`
	SubprojectID *uuid.UUID   `json:"subproject_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
