package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/conformahq/conforma-engine/pkg/apperrors"
	"github.com/conformahq/conforma-engine/pkg/database"
	"github.com/conformahq/conforma-engine/pkg/models"
)

// TrainingRecordRepository provides data access for training records.
type TrainingRecordRepository interface {
	Create(ctx context.Context, record *models.TrainingRecord) error
	Update(ctx context.Context, record *models.TrainingRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TrainingRecord, error)
	List(ctx context.Context) ([]*models.TrainingRecord, error)
}

type trainingRecordRepository struct {
	db *database.DB
}

// NewTrainingRecordRepository creates a new TrainingRecordRepository.
func NewTrainingRecordRepository(db *database.DB) TrainingRecordRepository {
	return &trainingRecordRepository{db: db}
}

var _ TrainingRecordRepository = (*trainingRecordRepository)(nil)

func (r *trainingRecordRepository) Create(ctx context.Context, record *models.TrainingRecord) error {
	now := time.Now()

	query := `
		INSERT INTO training_records (
			topic, date, trainer_id, attendee_ids, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		record.Topic,
		record.Date.Time,
		record.TrainerID,
		jsonbValue(record.AttendeeIDs),
		nullString(record.Notes),
		now,
		now,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create training record: %w", err)
	}

	return nil
}

func (r *trainingRecordRepository) Update(ctx context.Context, record *models.TrainingRecord) error {
	query := `
		UPDATE training_records
		SET topic = $2, date = $3, trainer_id = $4, attendee_ids = $5,
		    notes = $6, updated_at = $7
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		record.ID,
		record.Topic,
		record.Date.Time,
		record.TrainerID,
		jsonbValue(record.AttendeeIDs),
		nullString(record.Notes),
		time.Now(),
	).Scan(&record.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update training record: %w", err)
	}

	return nil
}

func (r *trainingRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM training_records WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete training record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *trainingRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TrainingRecord, error) {
	query := trainingRecordSelect + ` WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	record, err := scanTrainingRecord(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // Record not found
		}
		return nil, err
	}

	return record, nil
}

func (r *trainingRecordRepository) List(ctx context.Context) ([]*models.TrainingRecord, error) {
	query := trainingRecordSelect + ` ORDER BY date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query training records: %w", err)
	}
	defer rows.Close()

	var records []*models.TrainingRecord
	for rows.Next() {
		record, err := scanTrainingRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating training records: %w", err)
	}

	return records, nil
}

const trainingRecordSelect = `
	SELECT id, topic, date, trainer_id, attendee_ids, notes, created_at, updated_at
	FROM training_records`

func scanTrainingRecord(row pgx.Row) (*models.TrainingRecord, error) {
	var t models.TrainingRecord
	var date time.Time
	var notes *string
	var attendeeIDs []byte

	err := row.Scan(
		&t.ID,
		&t.Topic,
		&date,
		&t.TrainerID,
		&attendeeIDs,
		&notes,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan training record: %w", err)
	}

	t.Date = models.Date{Time: date}

	if notes != nil {
		t.Notes = *notes
	}

	if err := jsonUnmarshal(attendeeIDs, &t.AttendeeIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attendee_ids: %w", err)
	}

	return &t, nil
}
