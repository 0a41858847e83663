package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/conformahq/conforma-engine/pkg/apperrors"
	"github.com/conformahq/conforma-engine/pkg/models"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockComplaintService implements services.ComplaintService for handler tests.
type mockComplaintService struct {
	stored    *models.Complaint
	createErr error
	updateErr error
	deleteErr error
	deleted   []uuid.UUID
}

func (m *mockComplaintService) Create(ctx context.Context, complaint *models.Complaint) error {
	if m.createErr != nil {
		return m.createErr
	}
	complaint.ID = uuid.New()
	return nil
}

func (m *mockComplaintService) Update(ctx context.Context, complaint *models.Complaint) error {
	return m.updateErr
}

func (m *mockComplaintService) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockComplaintService) Get(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	return m.stored, nil
}

func (m *mockComplaintService) List(ctx context.Context) ([]*models.Complaint, error) {
	if m.stored == nil {
		return nil, nil
	}
	return []*models.Complaint{m.stored}, nil
}

// ============================================================================
// Tests
// ============================================================================

func TestComplaintHandler_Create_Success(t *testing.T) {
	handler := NewComplaintHandler(&mockComplaintService{}, zap.NewNop())

	body := map[string]any{
		"date":          "2025-06-12",
		"category":      "ENVIRONMENTAL",
		"description":   "Dust from the access road",
		"department_id": uuid.New().String(),
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/complaints", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response ApiResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.True(t, response.Success)
}

func TestComplaintHandler_Create_InvalidBody(t *testing.T) {
	handler := NewComplaintHandler(&mockComplaintService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/complaints", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComplaintHandler_Create_ValidationErrorBody(t *testing.T) {
	svc := &mockComplaintService{
		createErr: apperrors.Validation("date", "date is required"),
	}
	handler := NewComplaintHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/complaints", bytes.NewReader([]byte("{}")))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errBody map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errBody))
	assert.Equal(t, "validation_failed", errBody["error"])
	assert.Equal(t, "date is required", errBody["message"])
}

func TestComplaintHandler_Get_NotFound(t *testing.T) {
	handler := NewComplaintHandler(&mockComplaintService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/complaints/"+uuid.New().String(), nil)
	req.SetPathValue("id", uuid.New().String())
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComplaintHandler_Get_InvalidID(t *testing.T) {
	handler := NewComplaintHandler(&mockComplaintService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/complaints/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComplaintHandler_Get_Found(t *testing.T) {
	stored := &models.Complaint{
		ID:          uuid.New(),
		Date:        models.NewDate(2025, time.June, 12),
		Category:    models.ComplaintCategorySafety,
		Description: "Blocked emergency exit",
	}
	handler := NewComplaintHandler(&mockComplaintService{stored: stored}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/complaints/"+stored.ID.String(), nil)
	req.SetPathValue("id", stored.ID.String())
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response ApiResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.True(t, response.Success)
}

func TestComplaintHandler_Delete_ByQueryParam(t *testing.T) {
	svc := &mockComplaintService{}
	handler := NewComplaintHandler(svc, zap.NewNop())

	id := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/complaints?id="+id.String(), nil)
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uuid.UUID{id}, svc.deleted)
}

func TestComplaintHandler_Delete_NotFound(t *testing.T) {
	svc := &mockComplaintService{deleteErr: apperrors.ErrNotFound}
	handler := NewComplaintHandler(svc, zap.NewNop())

	id := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/complaints/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComplaintHandler_List(t *testing.T) {
	stored := &models.Complaint{ID: uuid.New(), Description: "Noise at night"}
	handler := NewComplaintHandler(&mockComplaintService{stored: stored}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Success bool                  `json:"success"`
		Data    ComplaintListResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.True(t, response.Success)
	assert.Equal(t, 1, response.Data.Total)
}
