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

// TrainingRecordService manages training session records.
type TrainingRecordService interface {
	Create(ctx context.Context, record *models.TrainingRecord) error
	Update(ctx context.Context, record *models.TrainingRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.TrainingRecord, error)
	List(ctx context.Context) ([]*models.TrainingRecord, error)
}

type trainingRecordService struct {
	repo   repositories.TrainingRecordRepository
	refs   repositories.ReferenceEntityRepository
	links  LinkService
	logger *zap.Logger
}

// NewTrainingRecordService creates a new TrainingRecordService.
func NewTrainingRecordService(
	repo repositories.TrainingRecordRepository,
	refs repositories.ReferenceEntityRepository,
	links LinkService,
	logger *zap.Logger,
) TrainingRecordService {
	return &trainingRecordService{
		repo:   repo,
		refs:   refs,
		links:  links,
		logger: logger.Named("training-record-service"),
	}
}

var _ TrainingRecordService = (*trainingRecordService)(nil)

func (s *trainingRecordService) Create(ctx context.Context, record *models.TrainingRecord) error {
	if err := s.prepare(ctx, record); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return err
	}

	s.resolveLinks(ctx, record)

	return nil
}

func (s *trainingRecordService) Update(ctx context.Context, record *models.TrainingRecord) error {
	if err := s.prepare(ctx, record); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return err
	}

	s.resolveLinks(ctx, record)

	return nil
}

func (s *trainingRecordService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *trainingRecordService) Get(ctx context.Context, id uuid.UUID) (*models.TrainingRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *trainingRecordService) List(ctx context.Context) ([]*models.TrainingRecord, error) {
	return s.repo.List(ctx)
}

func (s *trainingRecordService) prepare(ctx context.Context, record *models.TrainingRecord) error {
	if record.Topic == "" {
		return apperrors.Validation("topic", "topic is required")
	}
	if record.Date.IsZero() {
		return apperrors.Validation("date", "date is required")
	}

	if record.TrainerID != nil {
		trainer, err := s.refs.GetByID(ctx, *record.TrainerID)
		if err != nil {
			return fmt.Errorf("failed to load trainer: %w", err)
		}
		if trainer == nil || trainer.Kind != models.KindContact {
			return apperrors.Validation("trainer_id", "trainer not found")
		}
	}

	record.AttendeeIDs = NormalizeSelection(record.AttendeeIDs)

	return nil
}

func (s *trainingRecordService) resolveLinks(ctx context.Context, record *models.TrainingRecord) {
	var ids []uuid.UUID
	if record.TrainerID != nil {
		ids = append(ids, *record.TrainerID)
	}
	ids = append(ids, record.AttendeeIDs...)

	if err := s.links.ResolveLinks(ctx, "training-records", ids); err != nil {
		s.logger.Warn("Failed to resolve pending links",
			zap.String("record_id", record.ID.String()),
			zap.Error(err))
	}
}
