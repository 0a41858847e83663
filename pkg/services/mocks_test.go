package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/conformahq/conforma-engine/pkg/models"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockReferenceEntityRepo implements repositories.ReferenceEntityRepository.
type mockReferenceEntityRepo struct {
	entities  map[uuid.UUID]*models.ReferenceEntity
	created   []*models.ReferenceEntity
	listed    []*models.ReferenceEntity
	createErr error
	getErr    error
	listErr   error
}

func (m *mockReferenceEntityRepo) Create(ctx context.Context, entity *models.ReferenceEntity) error {
	if m.createErr != nil {
		return m.createErr
	}
	entity.ID = uuid.New()
	entity.CreatedAt = time.Now()
	entity.UpdatedAt = entity.CreatedAt
	if m.entities == nil {
		m.entities = make(map[uuid.UUID]*models.ReferenceEntity)
	}
	m.entities[entity.ID] = entity
	m.created = append(m.created, entity)
	return nil
}

func (m *mockReferenceEntityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ReferenceEntity, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.entities[id], nil
}

func (m *mockReferenceEntityRepo) ListByKind(ctx context.Context, kind, search string) ([]*models.ReferenceEntity, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listed, nil
}

// addEntity seeds the mock with an entity of the given kind and returns its ID.
func (m *mockReferenceEntityRepo) addEntity(kind, name string, fields map[string]string) uuid.UUID {
	if m.entities == nil {
		m.entities = make(map[uuid.UUID]*models.ReferenceEntity)
	}
	id := uuid.New()
	m.entities[id] = &models.ReferenceEntity{ID: id, Kind: kind, Name: name, Fields: fields}
	return id
}

// mockLinkService implements LinkService.
type mockLinkService struct {
	pending    []models.PendingLink
	resolved   map[string][]uuid.UUID
	recordErr  error
	resolveErr error
}

func (m *mockLinkService) RecordPending(ctx context.Context, entityID uuid.UUID, parentKind string) (*models.PendingLink, error) {
	if m.recordErr != nil {
		return nil, m.recordErr
	}
	link := models.PendingLink{
		ID:         uuid.New(),
		EntityID:   entityID,
		ParentKind: parentKind,
		Status:     models.LinkStatusPending,
		CreatedAt:  time.Now(),
	}
	m.pending = append(m.pending, link)
	return &link, nil
}

func (m *mockLinkService) ResolveLinks(ctx context.Context, parentKind string, entityIDs []uuid.UUID) error {
	if m.resolveErr != nil {
		return m.resolveErr
	}
	if m.resolved == nil {
		m.resolved = make(map[string][]uuid.UUID)
	}
	m.resolved[parentKind] = append(m.resolved[parentKind], entityIDs...)
	return nil
}

func (m *mockLinkService) SweepOrphans(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockLinkService) RunSweeper(ctx context.Context, interval time.Duration) {}

// mockComplaintRepo implements repositories.ComplaintRepository.
type mockComplaintRepo struct {
	stored    *models.Complaint
	created   []*models.Complaint
	updated   []*models.Complaint
	deleted   []uuid.UUID
	createErr error
	updateErr error
}

func (m *mockComplaintRepo) Create(ctx context.Context, complaint *models.Complaint) error {
	if m.createErr != nil {
		return m.createErr
	}
	complaint.ID = uuid.New()
	m.created = append(m.created, complaint)
	return nil
}

func (m *mockComplaintRepo) Update(ctx context.Context, complaint *models.Complaint) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = append(m.updated, complaint)
	return nil
}

func (m *mockComplaintRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockComplaintRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	return m.stored, nil
}

func (m *mockComplaintRepo) List(ctx context.Context) ([]*models.Complaint, error) {
	return nil, nil
}

// mockIncidentReportRepo implements repositories.IncidentReportRepository.
type mockIncidentReportRepo struct {
	stored    *models.IncidentReport
	created   []*models.IncidentReport
	updated   []*models.IncidentReport
	createErr error
	updateErr error
}

func (m *mockIncidentReportRepo) Create(ctx context.Context, report *models.IncidentReport) error {
	if m.createErr != nil {
		return m.createErr
	}
	report.ID = uuid.New()
	m.created = append(m.created, report)
	return nil
}

func (m *mockIncidentReportRepo) Update(ctx context.Context, report *models.IncidentReport) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = append(m.updated, report)
	return nil
}

func (m *mockIncidentReportRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (m *mockIncidentReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.IncidentReport, error) {
	return m.stored, nil
}

func (m *mockIncidentReportRepo) List(ctx context.Context) ([]*models.IncidentReport, error) {
	return nil, nil
}

// mockImpactAssessmentRepo implements repositories.ImpactAssessmentRepository.
type mockImpactAssessmentRepo struct {
	created   []*models.ImpactAssessment
	updated   []*models.ImpactAssessment
	createErr error
}

func (m *mockImpactAssessmentRepo) Create(ctx context.Context, assessment *models.ImpactAssessment) error {
	if m.createErr != nil {
		return m.createErr
	}
	assessment.ID = uuid.New()
	m.created = append(m.created, assessment)
	return nil
}

func (m *mockImpactAssessmentRepo) Update(ctx context.Context, assessment *models.ImpactAssessment) error {
	m.updated = append(m.updated, assessment)
	return nil
}

func (m *mockImpactAssessmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (m *mockImpactAssessmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ImpactAssessment, error) {
	return nil, nil
}

func (m *mockImpactAssessmentRepo) List(ctx context.Context) ([]*models.ImpactAssessment, error) {
	return nil, nil
}

// mockTrainingRecordRepo implements repositories.TrainingRecordRepository.
type mockTrainingRecordRepo struct {
	created   []*models.TrainingRecord
	updated   []*models.TrainingRecord
	createErr error
}

func (m *mockTrainingRecordRepo) Create(ctx context.Context, record *models.TrainingRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	record.ID = uuid.New()
	m.created = append(m.created, record)
	return nil
}

func (m *mockTrainingRecordRepo) Update(ctx context.Context, record *models.TrainingRecord) error {
	m.updated = append(m.updated, record)
	return nil
}

func (m *mockTrainingRecordRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (m *mockTrainingRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TrainingRecord, error) {
	return nil, nil
}

func (m *mockTrainingRecordRepo) List(ctx context.Context) ([]*models.TrainingRecord, error) {
	return nil, nil
}

// mockLinkRepo implements repositories.LinkRepository.
// A mutex guards cutoffs because the sweeper runs on its own goroutine.
type mockLinkRepo struct {
	mu          sync.Mutex
	pending     []*models.PendingLink
	resolvedIDs []uuid.UUID
	cutoffs     []time.Time
	orphanCount int64
	orphanErr   error
}

func (m *mockLinkRepo) CreatePending(ctx context.Context, link *models.PendingLink) error {
	link.ID = uuid.New()
	link.CreatedAt = time.Now()
	m.pending = append(m.pending, link)
	return nil
}

func (m *mockLinkRepo) Resolve(ctx context.Context, entityIDs []uuid.UUID, parentKind string) (int64, error) {
	m.resolvedIDs = append(m.resolvedIDs, entityIDs...)
	return int64(len(entityIDs)), nil
}

func (m *mockLinkRepo) MarkOrphanedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.orphanErr != nil {
		return 0, m.orphanErr
	}
	m.mu.Lock()
	m.cutoffs = append(m.cutoffs, cutoff)
	m.mu.Unlock()
	return m.orphanCount, nil
}

func (m *mockLinkRepo) sweepCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cutoffs)
}

func (m *mockLinkRepo) ListByStatus(ctx context.Context, status string) ([]*models.PendingLink, error) {
	return m.pending, nil
}

// ============================================================================
// Test Fixtures
// ============================================================================

const testKindsYAML = `kinds:
  - name: department
    label: Department
  - name: subproject
    label: Subproject
  - name: category
    label: Category
  - name: contact
    label: Contact
    fields: [role, contact_method]
  - name: participant
    label: Participant
`

// newTestRegistry loads a KindRegistry from an in-test seed file.
func newTestRegistry(t *testing.T) *KindRegistry {
	t.Helper()

	path := filepath.Join(t.TempDir(), "reference_kinds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testKindsYAML), 0o600))

	registry, err := LoadKindRegistry(path)
	require.NoError(t, err)
	return registry
}
