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

// LinkRepository provides data access for pending links, the first phase of
// the create-child/create-parent saga.
type LinkRepository interface {
	CreatePending(ctx context.Context, link *models.PendingLink) error
	// Resolve marks pending links for the given entities and parent kind as
	// resolved. Returns the number of links updated.
	Resolve(ctx context.Context, entityIDs []uuid.UUID, parentKind string) (int64, error)
	// MarkOrphanedOlderThan marks pending links created before the cutoff as
	// orphaned. The referenced entities are kept; only the link status changes.
	MarkOrphanedOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	ListByStatus(ctx context.Context, status string) ([]*models.PendingLink, error)
}

type linkRepository struct {
	db *database.DB
}

// NewLinkRepository creates a new LinkRepository.
func NewLinkRepository(db *database.DB) LinkRepository {
	return &linkRepository{db: db}
}

var _ LinkRepository = (*linkRepository)(nil)

func (r *linkRepository) CreatePending(ctx context.Context, link *models.PendingLink) error {
	query := `
		INSERT INTO pending_links (entity_id, parent_kind, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		link.EntityID,
		link.ParentKind,
		models.LinkStatusPending,
		time.Now(),
	).Scan(&link.ID, &link.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create pending link: %w", err)
	}

	link.Status = models.LinkStatusPending
	return nil
}

func (r *linkRepository) Resolve(ctx context.Context, entityIDs []uuid.UUID, parentKind string) (int64, error) {
	if len(entityIDs) == 0 {
		return 0, nil
	}

	query := `
		UPDATE pending_links
		SET status = $1, resolved_at = $2
		WHERE entity_id = ANY($3) AND parent_kind = $4 AND status = $5`

	result, err := r.db.Exec(ctx, query,
		models.LinkStatusResolved,
		time.Now(),
		entityIDs,
		parentKind,
		models.LinkStatusPending,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve pending links: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *linkRepository) MarkOrphanedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE pending_links
		SET status = $1
		WHERE status = $2 AND created_at < $3`

	result, err := r.db.Exec(ctx, query,
		models.LinkStatusOrphaned,
		models.LinkStatusPending,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark orphaned links: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *linkRepository) ListByStatus(ctx context.Context, status string) ([]*models.PendingLink, error) {
	query := `
		SELECT id, entity_id, parent_kind, status, created_at, resolved_at
		FROM pending_links
		WHERE status = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending links: %w", err)
	}
	defer rows.Close()

	var links []*models.PendingLink
	for rows.Next() {
		link, err := scanPendingLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending links: %w", err)
	}

	return links, nil
}

func scanPendingLink(row pgx.Row) (*models.PendingLink, error) {
	var l models.PendingLink

	err := row.Scan(
		&l.ID,
		&l.EntityID,
		&l.ParentKind,
		&l.Status,
		&l.CreatedAt,
		&l.ResolvedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan pending link: %w", err)
	}

	return &l, nil
}
