package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/conformahq/conforma-engine/pkg/apperrors"
	"github.com/conformahq/conforma-engine/pkg/models"
	"github.com/conformahq/conforma-engine/pkg/services"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockReferenceEntityService implements services.ReferenceEntityService for handler tests.
type mockReferenceEntityService struct {
	entities    []*models.ReferenceEntity
	entity      *models.ReferenceEntity
	kinds       []services.KindDefinition
	listErr     error
	createErr   error
	created     []*models.ReferenceEntity
	pendingFors []string
}

func (m *mockReferenceEntityService) List(ctx context.Context, kind, search string) ([]*models.ReferenceEntity, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.entities, nil
}

func (m *mockReferenceEntityService) Get(ctx context.Context, id uuid.UUID) (*models.ReferenceEntity, error) {
	return m.entity, nil
}

func (m *mockReferenceEntityService) Create(ctx context.Context, entity *models.ReferenceEntity, pendingFor string) error {
	if m.createErr != nil {
		return m.createErr
	}
	entity.ID = uuid.New()
	m.created = append(m.created, entity)
	m.pendingFors = append(m.pendingFors, pendingFor)
	return nil
}

func (m *mockReferenceEntityService) Kinds() []services.KindDefinition {
	return m.kinds
}

// ============================================================================
// Tests
// ============================================================================

func TestReferenceEntityHandler_List_UnknownKind(t *testing.T) {
	svc := &mockReferenceEntityService{listErr: apperrors.ErrUnknownKind}
	handler := NewReferenceEntityHandler(svc, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/reference-entities?kind=supplier", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errBody map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errBody))
	assert.Equal(t, "unknown_kind", errBody["error"])
}

func TestReferenceEntityHandler_List_RejectedSearch(t *testing.T) {
	svc := &mockReferenceEntityService{listErr: apperrors.ErrInjectionDetected}
	handler := NewReferenceEntityHandler(svc, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/reference-entities?kind=department&q=x", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errBody map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errBody))
	assert.Equal(t, "invalid_search", errBody["error"])
}

func TestReferenceEntityHandler_List_Success(t *testing.T) {
	svc := &mockReferenceEntityService{
		entities: []*models.ReferenceEntity{
			{ID: uuid.New(), Kind: "department", Name: "Operations"},
			{ID: uuid.New(), Kind: "department", Name: "Safety"},
		},
	}
	handler := NewReferenceEntityHandler(svc, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/reference-entities?kind=department", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Success bool                        `json:"success"`
		Data    ReferenceEntityListResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 2, response.Data.Total)
}

func TestReferenceEntityHandler_Create_PassesPendingFor(t *testing.T) {
	svc := &mockReferenceEntityService{}
	handler := NewReferenceEntityHandler(svc, nil, zap.NewNop())

	body := CreateReferenceEntityRequest{
		Kind:       "contact",
		Name:       "J. Mabote",
		PendingFor: "complaints",
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/reference-entities", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"complaints"}, svc.pendingFors)
}

func TestReferenceEntityHandler_Create_CoercesFieldValues(t *testing.T) {
	svc := &mockReferenceEntityService{}
	handler := NewReferenceEntityHandler(svc, nil, zap.NewNop())

	payload := []byte(`{"kind":"contact","name":"A. Cossa","fields":{"contact_method":841234567,"role":"Foreman"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/reference-entities", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.created, 1)
	assert.Equal(t, "841234567", svc.created[0].Fields["contact_method"])
	assert.Equal(t, "Foreman", svc.created[0].Fields["role"])
}

func TestReferenceEntityHandler_Get_NotFound(t *testing.T) {
	handler := NewReferenceEntityHandler(&mockReferenceEntityService{}, nil, zap.NewNop())

	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/reference-entities/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReferenceEntityHandler_Kinds(t *testing.T) {
	svc := &mockReferenceEntityService{
		kinds: []services.KindDefinition{
			{Name: "category", Label: "Category", Collection: "categories"},
			{Name: "department", Label: "Department", Collection: "departments"},
		},
	}
	handler := NewReferenceEntityHandler(svc, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/reference-kinds", nil)
	rec := httptest.NewRecorder()

	handler.Kinds(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Success bool             `json:"success"`
		Data    KindListResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Len(t, response.Data.Kinds, 2)
}
