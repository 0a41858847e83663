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

// IncidentReportRepository provides data access for incident reports.
type IncidentReportRepository interface {
	Create(ctx context.Context, report *models.IncidentReport) error
	Update(ctx context.Context, report *models.IncidentReport) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.IncidentReport, error)
	List(ctx context.Context) ([]*models.IncidentReport, error)
}

type incidentReportRepository struct {
	db *database.DB
}

// NewIncidentReportRepository creates a new IncidentReportRepository.
func NewIncidentReportRepository(db *database.DB) IncidentReportRepository {
	return &incidentReportRepository{db: db}
}

var _ IncidentReportRepository = (*incidentReportRepository)(nil)

func (r *incidentReportRepository) Create(ctx context.Context, report *models.IncidentReport) error {
	now := time.Now()

	query := `
		INSERT INTO incident_reports (
			date, time, severity, location, description, department_id,
			participant_ids, document_ids, attachment_urls, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		report.Date.Time,
		nullString(string(report.Time)),
		report.Severity,
		nullString(report.Location),
		report.Description,
		report.DepartmentID,
		jsonbValue(report.ParticipantIDs),
		jsonbValue(report.DocumentIDs),
		jsonbValue(report.AttachmentURLs),
		now,
		now,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident report: %w", err)
	}

	return nil
}

func (r *incidentReportRepository) Update(ctx context.Context, report *models.IncidentReport) error {
	query := `
		UPDATE incident_reports
		SET date = $2, time = $3, severity = $4, location = $5,
		    description = $6, department_id = $7, participant_ids = $8,
		    document_ids = $9, attachment_urls = $10, updated_at = $11
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		report.ID,
		report.Date.Time,
		nullString(string(report.Time)),
		report.Severity,
		nullString(report.Location),
		report.Description,
		report.DepartmentID,
		jsonbValue(report.ParticipantIDs),
		jsonbValue(report.DocumentIDs),
		jsonbValue(report.AttachmentURLs),
		time.Now(),
	).Scan(&report.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update incident report: %w", err)
	}

	return nil
}

func (r *incidentReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM incident_reports WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete incident report: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *incidentReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.IncidentReport, error) {
	query := incidentReportSelect + ` WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	report, err := scanIncidentReport(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // Report not found
		}
		return nil, err
	}

	return report, nil
}

func (r *incidentReportRepository) List(ctx context.Context) ([]*models.IncidentReport, error) {
	query := incidentReportSelect + ` ORDER BY date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query incident reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.IncidentReport
	for rows.Next() {
		report, err := scanIncidentReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating incident reports: %w", err)
	}

	return reports, nil
}

const incidentReportSelect = `
	SELECT id, date, time, severity, location, description, department_id,
	       participant_ids, document_ids, attachment_urls, created_at, updated_at
	FROM incident_reports`

func scanIncidentReport(row pgx.Row) (*models.IncidentReport, error) {
	var rep models.IncidentReport
	var date time.Time
	var timeOfDay, location *string
	var participantIDs, documentIDs, attachmentURLs []byte

	err := row.Scan(
		&rep.ID,
		&date,
		&timeOfDay,
		&rep.Severity,
		&location,
		&rep.Description,
		&rep.DepartmentID,
		&participantIDs,
		&documentIDs,
		&attachmentURLs,
		&rep.CreatedAt,
		&rep.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan incident report: %w", err)
	}

	rep.Date = models.Date{Time: date}

	if timeOfDay != nil {
		rep.Time = models.TimeOfDay(*timeOfDay)
	}
	if location != nil {
		rep.Location = *location
	}

	if err := jsonUnmarshal(participantIDs, &rep.ParticipantIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal participant_ids: %w", err)
	}
	if err := jsonUnmarshal(documentIDs, &rep.DocumentIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document_ids: %w", err)
	}
	if err := jsonUnmarshal(attachmentURLs, &rep.AttachmentURLs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attachment_urls: %w", err)
	}

	return &rep, nil
}
