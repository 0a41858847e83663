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

// IncidentReportService manages incident report records.
type IncidentReportService interface {
	Create(ctx context.Context, report *models.IncidentReport) error
	Update(ctx context.Context, report *models.IncidentReport) error
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.IncidentReport, error)
	List(ctx context.Context) ([]*models.IncidentReport, error)
	// ToggleParticipant adds the participant to the report's selection if
	// absent, or removes it if present, and returns the updated report.
	ToggleParticipant(ctx context.Context, id, participantID uuid.UUID) (*models.IncidentReport, error)
}

type incidentReportService struct {
	repo   repositories.IncidentReportRepository
	refs   repositories.ReferenceEntityRepository
	links  LinkService
	logger *zap.Logger
}

// NewIncidentReportService creates a new IncidentReportService.
func NewIncidentReportService(
	repo repositories.IncidentReportRepository,
	refs repositories.ReferenceEntityRepository,
	links LinkService,
	logger *zap.Logger,
) IncidentReportService {
	return &incidentReportService{
		repo:   repo,
		refs:   refs,
		links:  links,
		logger: logger.Named("incident-report-service"),
	}
}

var _ IncidentReportService = (*incidentReportService)(nil)

func (s *incidentReportService) Create(ctx context.Context, report *models.IncidentReport) error {
	if err := s.prepare(ctx, report); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, report); err != nil {
		return err
	}

	s.resolveLinks(ctx, report)

	s.logger.Info("Incident report created",
		zap.String("report_id", report.ID.String()),
		zap.String("severity", string(report.Severity)))

	return nil
}

func (s *incidentReportService) Update(ctx context.Context, report *models.IncidentReport) error {
	if err := s.prepare(ctx, report); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, report); err != nil {
		return err
	}

	s.resolveLinks(ctx, report)

	return nil
}

func (s *incidentReportService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *incidentReportService) Get(ctx context.Context, id uuid.UUID) (*models.IncidentReport, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *incidentReportService) List(ctx context.Context) ([]*models.IncidentReport, error) {
	return s.repo.List(ctx)
}

func (s *incidentReportService) ToggleParticipant(ctx context.Context, id, participantID uuid.UUID) (*models.IncidentReport, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, apperrors.ErrNotFound
	}

	report.ParticipantIDs = ToggleSelection(report.ParticipantIDs, participantID)

	if err := s.repo.Update(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}

// prepare validates the report and normalizes its multi-select slots.
// Validation failures are returned before any write is issued.
func (s *incidentReportService) prepare(ctx context.Context, report *models.IncidentReport) error {
	if report.Date.IsZero() {
		return apperrors.Validation("date", "date is required")
	}
	if !report.Time.Valid() {
		return apperrors.Validation("time", "time must be HH:mm")
	}
	if !report.Severity.Valid() {
		return apperrors.Validation("severity", "invalid severity")
	}
	if report.Description == "" {
		return apperrors.Validation("description", "description is required")
	}
	if report.DepartmentID == uuid.Nil {
		return apperrors.Validation("department_id", "a department must be selected")
	}

	department, err := s.refs.GetByID(ctx, report.DepartmentID)
	if err != nil {
		return fmt.Errorf("failed to load department: %w", err)
	}
	if department == nil || department.Kind != models.KindDepartment {
		return apperrors.Validation("department_id", "department not found")
	}

	report.ParticipantIDs = NormalizeSelection(report.ParticipantIDs)
	report.DocumentIDs = NormalizeSelection(report.DocumentIDs)

	return nil
}

// resolveLinks closes the saga for any referenced entities that were
// created from within the incident form.
func (s *incidentReportService) resolveLinks(ctx context.Context, report *models.IncidentReport) {
	ids := []uuid.UUID{report.DepartmentID}
	ids = append(ids, report.ParticipantIDs...)
	ids = append(ids, report.DocumentIDs...)

	if err := s.links.ResolveLinks(ctx, "incident-reports", ids); err != nil {
		s.logger.Warn("Failed to resolve pending links",
			zap.String("report_id", report.ID.String()),
			zap.Error(err))
	}
}
