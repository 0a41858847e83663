package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/conformahq/conforma-engine/pkg/database"
	"github.com/conformahq/conforma-engine/pkg/models"
)

// ReferenceEntityRepository provides data access for reference entities.
type ReferenceEntityRepository interface {
	Create(ctx context.Context, entity *models.ReferenceEntity) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ReferenceEntity, error)
	ListByKind(ctx context.Context, kind, search string) ([]*models.ReferenceEntity, error)
}

type referenceEntityRepository struct {
	db *database.DB
}

// NewReferenceEntityRepository creates a new ReferenceEntityRepository.
func NewReferenceEntityRepository(db *database.DB) ReferenceEntityRepository {
	return &referenceEntityRepository{db: db}
}

var _ ReferenceEntityRepository = (*referenceEntityRepository)(nil)

func (r *referenceEntityRepository) Create(ctx context.Context, entity *models.ReferenceEntity) error {
	now := time.Now()

	query := `
		INSERT INTO reference_entities (kind, name, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		entity.Kind,
		entity.Name,
		jsonbValue(entity.Fields),
		now,
		now,
	).Scan(&entity.ID, &entity.CreatedAt, &entity.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reference entity: %w", err)
	}

	return nil
}

func (r *referenceEntityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ReferenceEntity, error) {
	query := `
		SELECT id, kind, name, fields, created_at, updated_at
		FROM reference_entities
		WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	entity, err := scanReferenceEntity(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // Entity not found
		}
		return nil, err
	}

	return entity, nil
}

func (r *referenceEntityRepository) ListByKind(ctx context.Context, kind, search string) ([]*models.ReferenceEntity, error) {
	query := `
		SELECT id, kind, name, fields, created_at, updated_at
		FROM reference_entities
		WHERE kind = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY name`

	rows, err := r.db.Query(ctx, query, kind, search)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference entities: %w", err)
	}
	defer rows.Close()

	var entities []*models.ReferenceEntity
	for rows.Next() {
		entity, err := scanReferenceEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reference entities: %w", err)
	}

	return entities, nil
}

func scanReferenceEntity(row pgx.Row) (*models.ReferenceEntity, error) {
	var e models.ReferenceEntity
	var fields []byte

	err := row.Scan(
		&e.ID,
		&e.Kind,
		&e.Name,
		&fields,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan reference entity: %w", err)
	}

	if err := jsonUnmarshal(fields, &e.Fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fields: %w", err)
	}

	return &e, nil
}
