package models

import (
	"time"

	"github.com/google/uuid"
)

// ComplaintCategory classifies a community complaint or grievance.
type ComplaintCategory string

const (
	ComplaintCategoryEnvironmental ComplaintCategory = "ENVIRONMENTAL"
	ComplaintCategorySocial        ComplaintCategory = "SOCIAL"
	ComplaintCategorySafety        ComplaintCategory = "SAFETY"
	ComplaintCategoryLabor         ComplaintCategory = "LABOR"
	ComplaintCategoryOther         ComplaintCategory = "OTHER"
)

// Valid reports whether the category is one of the enumerated values.
func (c ComplaintCategory) Valid() bool {
	switch c {
	case ComplaintCategoryEnvironmental, ComplaintCategorySocial,
		ComplaintCategorySafety, ComplaintCategoryLabor, ComplaintCategoryOther:
		return true
	}
	return false
}

// Complaint is a community complaint or grievance record.
// CategoryOther is only meaningful while Category is OTHER; the service
// blanks it whenever the category moves away from OTHER.
//
// ContactID optionally references a contact reference entity. On create,
// empty contact fields are copied once from the referenced contact's
// snapshot; later edits to the copied fields never write back to the
// contact entity. Stored in complaints table.
type Complaint struct {
	ID             uuid.UUID         `json:"id"`
	Date           Date              `json:"date"`
	Category       ComplaintCategory `json:"category"`
	CategoryOther  string            `json:"category_other,omitempty"`
	Description    string            `json:"description"`
	DepartmentID   uuid.UUID         `json:"department_id"`
	ContactID      *uuid.UUID        `json:"contact_id,omitempty"`
	ContactName    string            `json:"contact_name,omitempty"`
	ContactRole    string            `json:"contact_role,omitempty"`
	ContactMethod  string            `json:"contact_method,omitempty"`
	Resolution     string            `json:"resolution,omitempty"`
	AttachmentURLs []string          `json:"attachment_urls,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
