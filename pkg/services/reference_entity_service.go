package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conformahq/conforma-engine/pkg/apperrors"
	"github.com/conformahq/conforma-engine/pkg/models"
	"github.com/conformahq/conforma-engine/pkg/repositories"
	sqlcheck "github.com/conformahq/conforma-engine/pkg/sql"
)

// ReferenceEntityService manages the shared lookup records parent forms
// select from. Entities created here are immediately selectable; when
// created from within a parent form (pendingFor set) a pending link is
// recorded so the orphan sweeper can account for parents that never save.
type ReferenceEntityService interface {
	List(ctx context.Context, kind, search string) ([]*models.ReferenceEntity, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ReferenceEntity, error)
	// Create stores a new reference entity. pendingFor names the parent
	// resource the entity was created for (e.g. "complaints"); empty means
	// the entity was created from its own standalone form.
	Create(ctx context.Context, entity *models.ReferenceEntity, pendingFor string) error
	Kinds() []KindDefinition
}

type referenceEntityService struct {
	repo     repositories.ReferenceEntityRepository
	links    LinkService
	registry *KindRegistry
	logger   *zap.Logger
}

// NewReferenceEntityService creates a new ReferenceEntityService.
func NewReferenceEntityService(
	repo repositories.ReferenceEntityRepository,
	links LinkService,
	registry *KindRegistry,
	logger *zap.Logger,
) ReferenceEntityService {
	return &referenceEntityService{
		repo:     repo,
		links:    links,
		registry: registry,
		logger:   logger.Named("reference-entity-service"),
	}
}

var _ ReferenceEntityService = (*referenceEntityService)(nil)

func (s *referenceEntityService) List(ctx context.Context, kind, search string) ([]*models.ReferenceEntity, error) {
	if !s.registry.IsRegistered(kind) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownKind, kind)
	}

	// Search runs through a parameterized ILIKE, but injection attempts in
	// free-text input are still rejected and logged for security review.
	if result := sqlcheck.CheckInput("q", search); result != nil {
		s.logger.Warn("SQL injection pattern in search input",
			zap.String("kind", kind),
			zap.String("fingerprint", result.Fingerprint))
		return nil, apperrors.ErrInjectionDetected
	}

	return s.repo.ListByKind(ctx, kind, search)
}

func (s *referenceEntityService) Get(ctx context.Context, id uuid.UUID) (*models.ReferenceEntity, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *referenceEntityService) Create(ctx context.Context, entity *models.ReferenceEntity, pendingFor string) error {
	if !s.registry.IsRegistered(entity.Kind) {
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownKind, entity.Kind)
	}
	if entity.Name == "" {
		return apperrors.Validation("name", "name is required")
	}

	if results := sqlcheck.CheckFields(entity.Fields); len(results) > 0 {
		s.logger.Warn("SQL injection pattern in entity fields",
			zap.String("kind", entity.Kind),
			zap.String("field", results[0].ParamName),
			zap.String("fingerprint", results[0].Fingerprint))
		return apperrors.ErrInjectionDetected
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		return err
	}

	if pendingFor != "" {
		// The entity exists whether or not the pending link lands; a lost
		// link only means the sweeper cannot account for it later.
		if _, err := s.links.RecordPending(ctx, entity.ID, pendingFor); err != nil {
			s.logger.Warn("Failed to record pending link",
				zap.String("entity_id", entity.ID.String()),
				zap.String("pending_for", pendingFor),
				zap.Error(err))
		}
	}

	s.logger.Info("Reference entity created",
		zap.String("entity_id", entity.ID.String()),
		zap.String("kind", entity.Kind))

	return nil
}

func (s *referenceEntityService) Kinds() []KindDefinition {
	return s.registry.Kinds()
}
