package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conformahq/conforma-engine/pkg/models"
	"github.com/conformahq/conforma-engine/pkg/repositories"
	"github.com/conformahq/conforma-engine/pkg/retry"
)

// DefaultPendingTTL is how long a pending link may stay unresolved before
// the sweeper marks it orphaned.
const DefaultPendingTTL = 24 * time.Hour

// LinkService tracks the two phases of the create-child/create-parent saga.
// Reference entities created from within a parent form get a pending link;
// saving the parent resolves it. There is no rollback: if the parent save
// never happens the entity stays, and the sweeper marks the link orphaned
// once the TTL expires.
type LinkService interface {
	RecordPending(ctx context.Context, entityID uuid.UUID, parentKind string) (*models.PendingLink, error)
	// ResolveLinks marks pending links for the given entities as resolved.
	ResolveLinks(ctx context.Context, parentKind string, entityIDs []uuid.UUID) error
	// SweepOrphans marks pending links older than the TTL as orphaned.
	// Returns the number of links affected.
	SweepOrphans(ctx context.Context) (int64, error)
	// RunSweeper starts a background goroutine that sweeps on the given interval.
	// It runs immediately on startup, then repeats every interval.
	// Cancel the context to stop the sweeper.
	RunSweeper(ctx context.Context, interval time.Duration)
}

type linkService struct {
	repo       repositories.LinkRepository
	pendingTTL time.Duration
	logger     *zap.Logger
}

// NewLinkService creates a new LinkService. A non-positive pendingTTL falls
// back to DefaultPendingTTL.
func NewLinkService(repo repositories.LinkRepository, pendingTTL time.Duration, logger *zap.Logger) LinkService {
	if pendingTTL <= 0 {
		pendingTTL = DefaultPendingTTL
	}
	return &linkService{
		repo:       repo,
		pendingTTL: pendingTTL,
		logger:     logger.Named("link-service"),
	}
}

var _ LinkService = (*linkService)(nil)

func (s *linkService) RecordPending(ctx context.Context, entityID uuid.UUID, parentKind string) (*models.PendingLink, error) {
	link := &models.PendingLink{
		EntityID:   entityID,
		ParentKind: parentKind,
	}
	if err := s.repo.CreatePending(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *linkService) ResolveLinks(ctx context.Context, parentKind string, entityIDs []uuid.UUID) error {
	// Resolution is the second half of the saga; a transient failure here
	// would leave links pending until the sweeper orphans them, so retry.
	var resolved int64
	err := retry.DoIfRetryable(ctx, nil, func() error {
		var resolveErr error
		resolved, resolveErr = s.repo.Resolve(ctx, entityIDs, parentKind)
		return resolveErr
	})
	if err != nil {
		return err
	}

	if resolved > 0 {
		s.logger.Debug("Resolved pending links",
			zap.String("parent_kind", parentKind),
			zap.Int64("resolved", resolved))
	}

	return nil
}

func (s *linkService) SweepOrphans(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.pendingTTL)

	orphaned, err := s.repo.MarkOrphanedOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if orphaned > 0 {
		s.logger.Info("Marked pending links as orphaned",
			zap.Int64("orphaned", orphaned),
			zap.Duration("pending_ttl", s.pendingTTL))
	}

	return orphaned, nil
}

// RunSweeper starts a background loop that marks expired pending links.
func (s *linkService) RunSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		s.logger.Info("Orphan sweeper started",
			zap.Duration("interval", interval),
			zap.Duration("pending_ttl", s.pendingTTL))

		// Run immediately on startup, then at each interval
		if _, err := s.SweepOrphans(ctx); err != nil {
			s.logger.Error("Orphan sweep failed", zap.Error(err))
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Orphan sweeper stopped")
				return
			case <-ticker.C:
				if _, err := s.SweepOrphans(ctx); err != nil {
					s.logger.Error("Orphan sweep failed", zap.Error(err))
				}
			}
		}
	}()
}
