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

// ComplaintRepository provides data access for complaint records.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	Update(ctx context.Context, complaint *models.Complaint) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	List(ctx context.Context) ([]*models.Complaint, error)
}

type complaintRepository struct {
	db *database.DB
}

// NewComplaintRepository creates a new ComplaintRepository.
func NewComplaintRepository(db *database.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

var _ ComplaintRepository = (*complaintRepository)(nil)

func (r *complaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	now := time.Now()

	query := `
		INSERT INTO complaints (
			date, category, category_other, description, department_id,
			contact_id, contact_name, contact_role, contact_method,
			resolution, attachment_urls, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		complaint.Date.Time,
		complaint.Category,
		nullString(complaint.CategoryOther),
		complaint.Description,
		complaint.DepartmentID,
		complaint.ContactID,
		nullString(complaint.ContactName),
		nullString(complaint.ContactRole),
		nullString(complaint.ContactMethod),
		nullString(complaint.Resolution),
		jsonbValue(complaint.AttachmentURLs),
		now,
		now,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}

	return nil
}

func (r *complaintRepository) Update(ctx context.Context, complaint *models.Complaint) error {
	query := `
		UPDATE complaints
		SET date = $2, category = $3, category_other = $4, description = $5,
		    department_id = $6, contact_id = $7, contact_name = $8,
		    contact_role = $9, contact_method = $10, resolution = $11,
		    attachment_urls = $12, updated_at = $13
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		complaint.ID,
		complaint.Date.Time,
		complaint.Category,
		nullString(complaint.CategoryOther),
		complaint.Description,
		complaint.DepartmentID,
		complaint.ContactID,
		nullString(complaint.ContactName),
		nullString(complaint.ContactRole),
		nullString(complaint.ContactMethod),
		nullString(complaint.Resolution),
		jsonbValue(complaint.AttachmentURLs),
		time.Now(),
	).Scan(&complaint.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update complaint: %w", err)
	}

	return nil
}

func (r *complaintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM complaints WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete complaint: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	query := complaintSelect + ` WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	complaint, err := scanComplaint(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // Complaint not found
		}
		return nil, err
	}

	return complaint, nil
}

func (r *complaintRepository) List(ctx context.Context) ([]*models.Complaint, error) {
	query := complaintSelect + ` ORDER BY date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}
	defer rows.Close()

	var complaints []*models.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		complaints = append(complaints, complaint)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating complaints: %w", err)
	}

	return complaints, nil
}

const complaintSelect = `
	SELECT id, date, category, category_other, description, department_id,
	       contact_id, contact_name, contact_role, contact_method,
	       resolution, attachment_urls, created_at, updated_at
	FROM complaints`

func scanComplaint(row pgx.Row) (*models.Complaint, error) {
	var c models.Complaint
	var date time.Time
	var categoryOther, contactName, contactRole, contactMethod, resolution *string
	var attachmentURLs []byte

	err := row.Scan(
		&c.ID,
		&date,
		&c.Category,
		&categoryOther,
		&c.Description,
		&c.DepartmentID,
		&c.ContactID,
		&contactName,
		&contactRole,
		&contactMethod,
		&resolution,
		&attachmentURLs,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan complaint: %w", err)
	}

	c.Date = models.Date{Time: date}

	// Handle nullable string fields
	if categoryOther != nil {
		c.CategoryOther = *categoryOther
	}
	if contactName != nil {
		c.ContactName = *contactName
	}
	if contactRole != nil {
		c.ContactRole = *contactRole
	}
	if contactMethod != nil {
		c.ContactMethod = *contactMethod
	}
	if resolution != nil {
		c.Resolution = *resolution
	}

	if err := jsonUnmarshal(attachmentURLs, &c.AttachmentURLs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attachment_urls: %w", err)
	}

	return &c, nil
}
