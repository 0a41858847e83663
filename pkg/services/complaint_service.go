package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conformahq/conforma-engine/pkg/apperrors"
	"github.com/conformahq/conforma-engine/pkg/logging"
	"github.com/conformahq/conforma-engine/pkg/models"
	"github.com/conformahq/conforma-engine/pkg/repositories"
)

// ComplaintService manages complaint and grievance records.
type ComplaintService interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	Update(ctx context.Context, complaint *models.Complaint) error
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	List(ctx context.Context) ([]*models.Complaint, error)
}

type complaintService struct {
	repo   repositories.ComplaintRepository
	refs   repositories.ReferenceEntityRepository
	links  LinkService
	logger *zap.Logger
}

// NewComplaintService creates a new ComplaintService.
func NewComplaintService(
	repo repositories.ComplaintRepository,
	refs repositories.ReferenceEntityRepository,
	links LinkService,
	logger *zap.Logger,
) ComplaintService {
	return &complaintService{
		repo:   repo,
		refs:   refs,
		links:  links,
		logger: logger.Named("complaint-service"),
	}
}

var _ ComplaintService = (*complaintService)(nil)

func (s *complaintService) Create(ctx context.Context, complaint *models.Complaint) error {
	if err := s.prepare(ctx, complaint); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, complaint); err != nil {
		return err
	}

	s.resolveLinks(ctx, complaint)

	s.logger.Info("Complaint created",
		zap.String("complaint_id", complaint.ID.String()),
		zap.String("category", string(complaint.Category)),
		zap.String("contact_method", logging.SanitizeContact(complaint.ContactMethod)))

	return nil
}

func (s *complaintService) Update(ctx context.Context, complaint *models.Complaint) error {
	if err := s.prepare(ctx, complaint); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, complaint); err != nil {
		return err
	}

	s.resolveLinks(ctx, complaint)

	return nil
}

func (s *complaintService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *complaintService) Get(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *complaintService) List(ctx context.Context) ([]*models.Complaint, error) {
	return s.repo.List(ctx)
}

// prepare validates the complaint and normalizes its dependent fields.
// Validation failures are returned before any write is issued.
func (s *complaintService) prepare(ctx context.Context, complaint *models.Complaint) error {
	if complaint.Date.IsZero() {
		return apperrors.Validation("date", "date is required")
	}
	if !complaint.Category.Valid() {
		return apperrors.Validation("category", "invalid category")
	}
	if complaint.Description == "" {
		return apperrors.Validation("description", "description is required")
	}
	if complaint.DepartmentID == uuid.Nil {
		return apperrors.Validation("department_id", "a department must be selected")
	}

	// CategoryOther is only meaningful while the category is OTHER. Clear it
	// on the way in so a stale value never outlives the category change.
	if complaint.Category != models.ComplaintCategoryOther {
		complaint.CategoryOther = ""
	}

	if err := s.requireEntity(ctx, complaint.DepartmentID, models.KindDepartment, "department_id"); err != nil {
		return err
	}

	if complaint.ContactID != nil {
		contact, err := s.refs.GetByID(ctx, *complaint.ContactID)
		if err != nil {
			return fmt.Errorf("failed to load contact: %w", err)
		}
		if contact == nil || contact.Kind != models.KindContact {
			return apperrors.Validation("contact_id", "contact not found")
		}
		applyContactSnapshot(complaint, contact)
	}

	return nil
}

// applyContactSnapshot copies contact details into the complaint's empty
// contact fields. This is a one-time copy, not a live binding: later edits
// to the copied fields never write back to the contact entity.
func applyContactSnapshot(complaint *models.Complaint, contact *models.ReferenceEntity) {
	if complaint.ContactName == "" {
		complaint.ContactName = contact.Name
	}
	if complaint.ContactRole == "" {
		complaint.ContactRole = contact.Fields["role"]
	}
	if complaint.ContactMethod == "" {
		complaint.ContactMethod = contact.Fields["contact_method"]
	}
}

func (s *complaintService) requireEntity(ctx context.Context, id uuid.UUID, kind, field string) error {
	entity, err := s.refs.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", kind, err)
	}
	if entity == nil || entity.Kind != kind {
		return apperrors.Validation(field, kind+" not found")
	}
	return nil
}

// resolveLinks closes the saga for any referenced entities that were
// created from within the complaint form.
func (s *complaintService) resolveLinks(ctx context.Context, complaint *models.Complaint) {
	ids := []uuid.UUID{complaint.DepartmentID}
	if complaint.ContactID != nil {
		ids = append(ids, *complaint.ContactID)
	}

	if err := s.links.ResolveLinks(ctx, "complaints", ids); err != nil {
		s.logger.Warn("Failed to resolve pending links",
			zap.String("complaint_id", complaint.ID.String()),
			zap.Error(err))
	}
}
