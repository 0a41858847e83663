package models

import (
	"time"

	"github.com/google/uuid"
)

// Built-in reference entity kinds. Additional kinds may be registered via
// the reference_kinds.yaml seed file.
const (
	KindDepartment         = "department"
	KindSubproject         = "subproject"
	KindCategory           = "category"
	KindContact            = "contact"
	KindDocumentType       = "document_type"
	KindParticipant        = "participant"
	KindSupportingDocument = "supporting_document"
)

// ReferenceEntity is a lightweight lookup record (department, category,
// contact person, document type) created independently of any parent record
// and referenced by one or many of them. Reference entities are shared and
// never cascade deletion to parents; no delete path exists.
// Stored in reference_entities table.
type ReferenceEntity struct {
	ID        uuid.UUID         `json:"id"`
	Kind      string            `json:"kind"`
	Name      string            `json:"name"`
	Fields    map[string]string `json:"fields,omitempty"` // small set of descriptive fields
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Pending link status values
const (
	LinkStatusPending  = "pending"  // Entity created via a resolver, parent not yet saved
	LinkStatusResolved = "resolved" // A parent record referencing the entity was saved
	LinkStatusOrphaned = "orphaned" // TTL expired with no parent save; entity is kept, never deleted
)

// PendingLink records the first phase of the create-child/create-parent
// saga: a reference entity created from within a parent form, awaiting the
// parent record that will reference it. Stored in pending_links table.
type PendingLink struct {
	ID         uuid.UUID  `json:"id"`
	EntityID   uuid.UUID  `json:"entity_id"`
	ParentKind string     `json:"parent_kind"` // resource the entity was created for, e.g. "complaints"
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}
