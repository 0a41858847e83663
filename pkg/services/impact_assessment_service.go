package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conformahq/conforma-engine/pkg/apperrors"
	"github.com/conformahq/conforma-engine/pkg/models"
	"github.com/conformahq/conforma-engine/pkg/repositories"
)

// ImpactAssessmentService manages impact assessments and keeps the derived
// significance field consistent with its inputs.
type ImpactAssessmentService interface {
	Create(ctx context.Context, assessment *models.ImpactAssessment) error
	Update(ctx context.Context, assessment *models.ImpactAssessment) error
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.ImpactAssessment, error)
	List(ctx context.Context) ([]*models.ImpactAssessment, error)
}

type impactAssessmentService struct {
	repo   repositories.ImpactAssessmentRepository
	refs   repositories.ReferenceEntityRepository
	links  LinkService
	logger *zap.Logger
}

// NewImpactAssessmentService creates a new ImpactAssessmentService.
func NewImpactAssessmentService(
	repo repositories.ImpactAssessmentRepository,
	refs repositories.ReferenceEntityRepository,
	links LinkService,
	logger *zap.Logger,
) ImpactAssessmentService {
	return &impactAssessmentService{
		repo:   repo,
		refs:   refs,
		links:  links,
		logger: logger.Named("impact-assessment-service"),
	}
}

var _ ImpactAssessmentService = (*impactAssessmentService)(nil)

func (s *impactAssessmentService) Create(ctx context.Context, assessment *models.ImpactAssessment) error {
	if err := s.prepare(ctx, assessment); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, assessment); err != nil {
		return err
	}

	s.resolveLinks(ctx, assessment)

	s.logger.Info("Impact assessment created",
		zap.String("assessment_id", assessment.ID.String()),
		zap.String("significance", string(assessment.Significance)))

	return nil
}

func (s *impactAssessmentService) Update(ctx context.Context, assessment *models.ImpactAssessment) error {
	if err := s.prepare(ctx, assessment); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, assessment); err != nil {
		return err
	}

	s.resolveLinks(ctx, assessment)

	return nil
}

func (s *impactAssessmentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *impactAssessmentService) Get(ctx context.Context, id uuid.UUID) (*models.ImpactAssessment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *impactAssessmentService) List(ctx context.Context) ([]*models.ImpactAssessment, error) {
	return s.repo.List(ctx)
}

// prepare validates the assessment and recomputes the derived significance.
// Whatever the client sent for significance is discarded: the field is
// derived, never user-edited.
func (s *impactAssessmentService) prepare(ctx context.Context, assessment *models.ImpactAssessment) error {
	if assessment.Activity == "" {
		return apperrors.Validation("activity", "activity is required")
	}
	if assessment.Aspect == "" {
		return apperrors.Validation("aspect", "aspect is required")
	}
	if assessment.Impact == "" {
		return apperrors.Validation("impact", "impact is required")
	}
	if !assessment.Intensity.Valid() {
		return apperrors.Validation("intensity", "intensity is required")
	}
	if !assessment.Probability.Valid() {
		return apperrors.Validation("probability", "probability is required")
	}
	if assessment.DepartmentID == uuid.Nil {
		return apperrors.Validation("department_id", "a department must be selected")
	}

	department, err := s.refs.GetByID(ctx, assessment.DepartmentID)
	if err != nil {
		return fmt.Errorf("failed to load department: %w", err)
	}
	if department == nil || department.Kind != models.KindDepartment {
		return apperrors.Validation("department_id", "department not found")
	}

	if assessment.SubprojectID != nil {
		subproject, err := s.refs.GetByID(ctx, *assessment.SubprojectID)
		if err != nil {
			return fmt.Errorf("failed to load subproject: %w", err)
		}
		if subproject == nil || subproject.Kind != models.KindSubproject {
			return apperrors.Validation("subproject_id", "subproject not found")
		}
	}

	assessment.Significance = models.Classify(assessment.Intensity, assessment.Probability)

	return nil
}

// resolveLinks closes the saga for any referenced entities that were
// created from within the assessment form.
func (s *impactAssessmentService) resolveLinks(ctx context.Context, assessment *models.ImpactAssessment) {
	ids := []uuid.UUID{assessment.DepartmentID}
	if assessment.SubprojectID != nil {
		ids = append(ids, *assessment.SubprojectID)
	}

	if err := s.links.ResolveLinks(ctx, "impact-assessments", ids); err != nil {
		s.logger.Warn("Failed to resolve pending links",
			zap.String("assessment_id", assessment.ID.String()),
			zap.Error(err))
	}
}
