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

// ComplaintListResponse for GET /complaints
type ComplaintListResponse struct {
	Complaints []*models.Complaint `json:"complaints"`
	Total      int                 `json:"total"`
}

// ============================================================================
// Handler
// ============================================================================

// ComplaintHandler handles complaint HTTP requests.
type ComplaintHandler struct {
	complaintService services.ComplaintService
	logger           *zap.Logger
}

// NewComplaintHandler creates a new complaint handler.
func NewComplaintHandler(
	complaintService services.ComplaintService,
	logger *zap.Logger,
) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		logger:           logger,
	}
}

// RegisterRoutes registers the complaint handler's routes on the given mux.
// Delete is registered both with and without the path ID so clients may pass
// the ID as a query parameter instead.
func (h *ComplaintHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/complaints", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/complaints/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("POST /api/complaints", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("PUT /api/complaints/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/complaints/{id}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("DELETE /api/complaints", authMiddleware.RequireAuth(h.Delete))
}

// List handles GET /api/complaints
func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	complaints, err := h.complaintService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list complaints", zap.Error(err))
		respondServiceError(w, h.logger, err, "list_complaints_failed")
		return
	}

	response := ComplaintListResponse{
		Complaints: complaints,
		Total:      len(complaints),
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/complaints/{id}
func (h *ComplaintHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	complaint, err := h.complaintService.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get complaint",
			zap.String("complaint_id", id.String()),
			zap.Error(err))
		respondServiceError(w, h.logger, err, "get_complaint_failed")
		return
	}

	if complaint == nil {
		if err := ErrorResponse(w, http.StatusNotFound, "complaint_not_found", "Complaint not found"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: complaint}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/complaints
func (h *ComplaintHandler) Create(w http.ResponseWriter, r *http.Request) {
	var complaint models.Complaint
	if err := json.NewDecoder(r.Body).Decode(&complaint); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.complaintService.Create(r.Context(), &complaint); err != nil {
		h.logger.Error("Failed to create complaint", zap.Error(err))
		respondServiceError(w, h.logger, err, "create_complaint_failed")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: complaint}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/complaints/{id}
func (h *ComplaintHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	var complaint models.Complaint
	if err := json.NewDecoder(r.Body).Decode(&complaint); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	complaint.ID = id

	if err := h.complaintService.Update(r.Context(), &complaint); err != nil {
		h.logger.Error("Failed to update complaint",
			zap.String("complaint_id", id.String()),
			zap.Error(err))
		respondServiceError(w, h.logger, err, "update_complaint_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: complaint}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/complaints/{id} and DELETE /api/complaints?id=
func (h *ComplaintHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.complaintService.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete complaint",
			zap.String("complaint_id", id.String()),
			zap.Error(err))
		respondServiceError(w, h.logger, err, "delete_complaint_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
