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

// ImpactAssessmentRepository provides data access for impact assessments.
type ImpactAssessmentRepository interface {
	Create(ctx context.Context, assessment *models.ImpactAssessment) error
	Update(ctx context.Context, assessment *models.ImpactAssessment) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ImpactAssessment, error)
	List(ctx context.Context) ([]*models.ImpactAssessment, error)
}

type impactAssessmentRepository struct {
	db *database.DB
}

// NewImpactAssessmentRepository creates a new ImpactAssessmentRepository.
func NewImpactAssessmentRepository(db *database.DB) ImpactAssessmentRepository {
	return &impactAssessmentRepository{db: db}
}

var _ ImpactAssessmentRepository = (*impactAssessmentRepository)(nil)

func (r *impactAssessmentRepository) Create(ctx context.Context, assessment *models.ImpactAssessment) error {
	now := time.Now()

	query := `
		INSERT INTO impact_assessments (
			activity, aspect, impact, intensity, probability, significance,
			mitigation, department_id, subproject_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		assessment.Activity,
		assessment.Aspect,
		assessment.Impact,
		assessment.Intensity,
		assessment.Probability,
		assessment.Significance,
		nullString(assessment.Mitigation),
		assessment.DepartmentID,
		assessment.SubprojectID,
		now,
		now,
	).Scan(&assessment.ID, &assessment.CreatedAt, &assessment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create impact assessment: %w", err)
	}

	return nil
}

func (r *impactAssessmentRepository) Update(ctx context.Context, assessment *models.ImpactAssessment) error {
	query := `
		UPDATE impact_assessments
		SET activity = $2, aspect = $3, impact = $4, intensity = $5,
		    probability = $6, significance = $7, mitigation = $8,
		    department_id = $9, subproject_id = $10, updated_at = $11
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		assessment.ID,
		assessment.Activity,
		assessment.Aspect,
		assessment.Impact,
		assessment.Intensity,
		assessment.Probability,
		assessment.Significance,
		nullString(assessment.Mitigation),
		assessment.DepartmentID,
		assessment.SubprojectID,
		time.Now(),
	).Scan(&assessment.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update impact assessment: %w", err)
	}

	return nil
}

func (r *impactAssessmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM impact_assessments WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete impact assessment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *impactAssessmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ImpactAssessment, error) {
	query := impactAssessmentSelect + ` WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	assessment, err := scanImpactAssessment(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // Assessment not found
		}
		return nil, err
	}

	return assessment, nil
}

func (r *impactAssessmentRepository) List(ctx context.Context) ([]*models.ImpactAssessment, error) {
	query := impactAssessmentSelect + ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query impact assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*models.ImpactAssessment
	for rows.Next() {
		assessment, err := scanImpactAssessment(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, assessment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating impact assessments: %w", err)
	}

	return assessments, nil
}

const impactAssessmentSelect = `
	SELECT id, activity, aspect, impact, intensity, probability, significance,
	       mitigation, department_id, subproject_id, created_at, updated_at
	FROM impact_assessments`

func scanImpactAssessment(row pgx.Row) (*models.ImpactAssessment, error) {
	var a models.ImpactAssessment
	var significance, mitigation *string

	err := row.Scan(
		&a.ID,
		&a.Activity,
		&a.Aspect,
		&a.Impact,
		&a.Intensity,
		&a.Probability,
		&significance,
		&mitigation,
		&a.DepartmentID,
		&a.SubprojectID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan impact assessment: %w", err)
	}

	// Significance is stored NULL when the assessment has not been evaluated
	if significance != nil {
		a.Significance = models.Significance(*significance)
	}
	if mitigation != nil {
		a.Mitigation = *mitigation
	}

	return &a, nil
}
