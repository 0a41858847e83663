package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/conformahq/conforma-engine/pkg/auth"
	"github.com/conformahq/conforma-engine/pkg/models"
	"github.com/conformahq/conforma-engine/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// TrainingRecordListResponse for GET /training-records
type TrainingRecordListResponse struct {
	Records []*models.TrainingRecord `json:"records"`
	Total   int                      `json:"total"`
}

// ============================================================================
// Handler
// ============================================================================

// TrainingRecordHandler handles training record HTTP requests.
type TrainingRecordHandler struct {
	recordService services.TrainingRecordService
	logger        *zap.Logger
}

// NewTrainingRecordHandler creates a new training record handler.
func NewTrainingRecordHandler(
	recordService services.TrainingRecordService,
	logger *zap.Logger,
) *TrainingRecordHandler {
	return &TrainingRecordHandler{
		recordService: recordService,
		logger:        logger,
	}
}

// RegisterRoutes registers the training record handler's routes on the given mux.
func (h *TrainingRecordHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/training-records", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/training-records/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("POST /api/training-records", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("PUT /api/training-records/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/training-records/{id}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("DELETE /api/training-records", authMiddleware.RequireAuth(h.Delete))
}

// List handles GET /api/training-records
func (h *TrainingRecordHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.recordService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list training records", zap.Error(err))
		respondServiceError(w, h.logger, err, "list_records_failed")
		return
	}

	response := TrainingRecordListResponse{
		Records: records,
		Total:   len(records),
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/training-records/{id}
func (h *TrainingRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	record, err := h.recordService.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get training record",
			zap.String("record_id", id.String()),
			zap.Error(err))
		respondServiceError(w, h.logger, err, "get_record_failed")
		return
	}

	if record == nil {
		if err := ErrorResponse(w, http.StatusNotFound, "record_not_found", "Training record not found"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: record}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/training-records
func (h *TrainingRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var record models.TrainingRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.recordService.Create(r.Context(), &record); err != nil {
		h.logger.Error("Failed to create training record", zap.Error(err))
		respondServiceError(w, h.logger, err, "create_record_failed")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: record}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/training-records/{id}
func (h *TrainingRecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	var record models.TrainingRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	record.ID = id

	if err := h.recordService.Update(r.Context(), &record); err != nil {
		h.logger.Error("Failed to update training record",
			zap.String("record_id", id.String()),
			zap.Error(err))
		respondServiceError(w, h.logger, err, "update_record_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: record}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/training-records/{id} and DELETE /api/training-records?id=
func (h *TrainingRecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.recordService.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete training record",
			zap.String("record_id", id.String()),
			zap.Error(err))
		respondServiceError(w, h.logger, err, "delete_record_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
