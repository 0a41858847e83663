package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/conformahq/conforma-engine/pkg/apperrors"
	"github.com/conformahq/conforma-engine/pkg/models"
)

func validComplaint(departmentID uuid.UUID) *models.Complaint {
	return &models.Complaint{
		Date:         models.NewDate(2025, time.June, 12),
		Category:     models.ComplaintCategoryEnvironmental,
		Description:  "Dust from the access road",
		DepartmentID: departmentID,
	}
}

func TestComplaintService_Create_ValidationBlocksWrite(t *testing.T) {
	repo := &mockComplaintRepo{}
	refs := &mockReferenceEntityRepo{}
	svc := NewComplaintService(repo, refs, &mockLinkService{}, zap.NewNop())

	tests := []struct {
		name   string
		mutate func(*models.Complaint)
	}{
		{"missing date", func(c *models.Complaint) { c.Date = models.Date{} }},
		{"invalid category", func(c *models.Complaint) { c.Category = "NOISE" }},
		{"missing description", func(c *models.Complaint) { c.Description = "" }},
		{"missing department", func(c *models.Complaint) { c.DepartmentID = uuid.Nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			complaint := validComplaint(uuid.New())
			tt.mutate(complaint)

			err := svc.Create(context.Background(), complaint)

			assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
			assert.Empty(t, repo.created, "validation failure must not reach the repository")
		})
	}
}

func TestComplaintService_Create_DepartmentMustExist(t *testing.T) {
	repo := &mockComplaintRepo{}
	refs := &mockReferenceEntityRepo{}
	svc := NewComplaintService(repo, refs, &mockLinkService{}, zap.NewNop())

	err := svc.Create(context.Background(), validComplaint(uuid.New()))

	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, repo.created)
}

func TestComplaintService_Create_DepartmentMustBeDepartmentKind(t *testing.T) {
	repo := &mockComplaintRepo{}
	refs := &mockReferenceEntityRepo{}
	contactID := refs.addEntity(models.KindContact, "Not a department", nil)
	svc := NewComplaintService(repo, refs, &mockLinkService{}, zap.NewNop())

	err := svc.Create(context.Background(), validComplaint(contactID))

	assert.True(t, apperrors.IsValidation(err))
}

func TestComplaintService_Create_BlanksCategoryOtherWhenNotOther(t *testing.T) {
	repo := &mockComplaintRepo{}
	refs := &mockReferenceEntityRepo{}
	deptID := refs.addEntity(models.KindDepartment, "Operations", nil)
	svc := NewComplaintService(repo, refs, &mockLinkService{}, zap.NewNop())

	complaint := validComplaint(deptID)
	complaint.Category = models.ComplaintCategorySafety
	complaint.CategoryOther = "stale free text"

	require.NoError(t, svc.Create(context.Background(), complaint))
	assert.Empty(t, complaint.CategoryOther)
}

func TestComplaintService_Create_KeepsCategoryOtherForOther(t *testing.T) {
	repo := &mockComplaintRepo{}
	refs := &mockReferenceEntityRepo{}
	deptID := refs.addEntity(models.KindDepartment, "Operations", nil)
	svc := NewComplaintService(repo, refs, &mockLinkService{}, zap.NewNop())

	complaint := validComplaint(deptID)
	complaint.Category = models.ComplaintCategoryOther
	complaint.CategoryOther = "Land access"

	require.NoError(t, svc.Create(context.Background(), complaint))
	assert.Equal(t, "Land access", complaint.CategoryOther)
}

func TestComplaintService_Create_CopiesContactSnapshotIntoEmptyFields(t *testing.T) {
	repo := &mockComplaintRepo{}
	refs := &mockReferenceEntityRepo{}
	deptID := refs.addEntity(models.KindDepartment, "Operations", nil)
	contactID := refs.addEntity(models.KindContact, "Alice Macuácua", map[string]string{
		"role":           "Community Liaison",
		"contact_method": "alice@example.org",
	})
	svc := NewComplaintService(repo, refs, &mockLinkService{}, zap.NewNop())

	complaint := validComplaint(deptID)
	complaint.ContactID = &contactID

	require.NoError(t, svc.Create(context.Background(), complaint))
	assert.Equal(t, "Alice Macuácua", complaint.ContactName)
	assert.Equal(t, "Community Liaison", complaint.ContactRole)
	assert.Equal(t, "alice@example.org", complaint.ContactMethod)
}

func TestComplaintService_Create_SnapshotNeverOverwritesEditedFields(t *testing.T) {
	repo := &mockComplaintRepo{}
	refs := &mockReferenceEntityRepo{}
	deptID := refs.addEntity(models.KindDepartment, "Operations", nil)
	contactID := refs.addEntity(models.KindContact, "Alice Macuácua", map[string]string{"role": "Community Liaison"})
	svc := NewComplaintService(repo, refs, &mockLinkService{}, zap.NewNop())

	complaint := validComplaint(deptID)
	complaint.ContactID = &contactID
	complaint.ContactName = "Edited Name"

	require.NoError(t, svc.Create(context.Background(), complaint))
	assert.Equal(t, "Edited Name", complaint.ContactName, "one-time copy must not clobber an edited field")
	assert.Equal(t, "Community Liaison", complaint.ContactRole)
}

func TestComplaintService_Create_ResolvesPendingLinks(t *testing.T) {
	repo := &mockComplaintRepo{}
	refs := &mockReferenceEntityRepo{}
	deptID := refs.addEntity(models.KindDepartment, "Operations", nil)
	contactID := refs.addEntity(models.KindContact, "Alice Macuácua", nil)
	links := &mockLinkService{}
	svc := NewComplaintService(repo, refs, links, zap.NewNop())

	complaint := validComplaint(deptID)
	complaint.ContactID = &contactID

	require.NoError(t, svc.Create(context.Background(), complaint))
	assert.ElementsMatch(t, []uuid.UUID{deptID, contactID}, links.resolved["complaints"])
}

func TestComplaintService_Create_SucceedsWhenResolveFails(t *testing.T) {
	repo := &mockComplaintRepo{}
	refs := &mockReferenceEntityRepo{}
	deptID := refs.addEntity(models.KindDepartment, "Operations", nil)
	links := &mockLinkService{resolveErr: assert.AnError}
	svc := NewComplaintService(repo, refs, links, zap.NewNop())

	err := svc.Create(context.Background(), validComplaint(deptID))

	require.NoError(t, err, "link resolution is best-effort; the saved record wins")
	assert.Len(t, repo.created, 1)
}
