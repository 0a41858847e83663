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

func TestTrainingRecordService_Create_Validation(t *testing.T) {
	repo := &mockTrainingRecordRepo{}
	svc := NewTrainingRecordService(repo, &mockReferenceEntityRepo{}, &mockLinkService{}, zap.NewNop())

	err := svc.Create(context.Background(), &models.TrainingRecord{Date: models.NewDate(2025, time.May, 5)})
	assert.True(t, apperrors.IsValidation(err), "topic is required")

	err = svc.Create(context.Background(), &models.TrainingRecord{Topic: "Spill response"})
	assert.True(t, apperrors.IsValidation(err), "date is required")

	assert.Empty(t, repo.created)
}

func TestTrainingRecordService_Create_TrainerMustBeContact(t *testing.T) {
	repo := &mockTrainingRecordRepo{}
	refs := &mockReferenceEntityRepo{}
	wrongKindID := refs.addEntity(models.KindDepartment, "Not a contact", nil)
	svc := NewTrainingRecordService(repo, refs, &mockLinkService{}, zap.NewNop())

	record := &models.TrainingRecord{
		Topic:     "Spill response",
		Date:      models.NewDate(2025, time.May, 5),
		TrainerID: &wrongKindID,
	}

	err := svc.Create(context.Background(), record)

	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, repo.created)
}

func TestTrainingRecordService_Create_DeduplicatesAttendees(t *testing.T) {
	repo := &mockTrainingRecordRepo{}
	refs := &mockReferenceEntityRepo{}
	svc := NewTrainingRecordService(repo, refs, &mockLinkService{}, zap.NewNop())

	a1, a2 := uuid.New(), uuid.New()
	record := &models.TrainingRecord{
		Topic:       "Spill response",
		Date:        models.NewDate(2025, time.May, 5),
		AttendeeIDs: []uuid.UUID{a1, a1, a2},
	}

	require.NoError(t, svc.Create(context.Background(), record))
	assert.Equal(t, []uuid.UUID{a1, a2}, record.AttendeeIDs)
}

func TestTrainingRecordService_Create_ResolvesTrainerAndAttendees(t *testing.T) {
	repo := &mockTrainingRecordRepo{}
	refs := &mockReferenceEntityRepo{}
	trainerID := refs.addEntity(models.KindContact, "B. Sitoe", nil)
	links := &mockLinkService{}
	svc := NewTrainingRecordService(repo, refs, links, zap.NewNop())

	attendee := uuid.New()
	record := &models.TrainingRecord{
		Topic:       "Spill response",
		Date:        models.NewDate(2025, time.May, 5),
		TrainerID:   &trainerID,
		AttendeeIDs: []uuid.UUID{attendee},
	}

	require.NoError(t, svc.Create(context.Background(), record))
	assert.ElementsMatch(t, []uuid.UUID{trainerID, attendee}, links.resolved["training-records"])
}
