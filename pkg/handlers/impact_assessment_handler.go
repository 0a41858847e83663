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

// ImpactAssessmentListResponse for GET /impact-assessments
type ImpactAssessmentListResponse struct {
	Assessments []*models.ImpactAssessment `json:"assessments"`
	Total       int                        `json:"total"`
}

// ============================================================================
// Handler
// ============================================================================

// ImpactAssessmentHandler handles impact assessment HTTP requests.
type ImpactAssessmentHandler struct {
	assessmentService services.ImpactAssessmentService
	logger            *zap.Logger
}

// NewImpactAssessmentHandler creates a new impact assessment handler.
func NewImpactAssessmentHandler(
	assessmentService services.ImpactAssessmentService,
	logger *zap.Logger,
) *ImpactAssessmentHandler {
	return &ImpactAssessmentHandler{
		assessmentService: assessmentService,
		logger:            logger,
	}
}

// RegisterRoutes registers the impact assessment handler's routes on the given mux.
func (h *ImpactAssessmentHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/impact-assessments", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/impact-assessments/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("POST /api/impact-assessments", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("PUT /api/impact-assessments/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/impact-assessments/{id}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("DELETE /api/impact-assessments", authMiddleware.RequireAuth(h.Delete))
}

// List handles GET /api/impact-assessments
func (h *ImpactAssessmentHandler) List(w http.ResponseWriter, r *http.Request) {
	assessments, err := h.assessmentService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list impact assessments", zap.Error(err))
		respondServiceError(w, h.logger, err, "list_assessments_failed")
		return
	}

	response := ImpactAssessmentListResponse{
		Assessments: assessments,
		Total:       len(assessments),
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/impact-assessments/{id}
func (h *ImpactAssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	assessment, err := h.assessmentService.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get impact assessment",
			zap.String("assessment_id", id.String()),
			zap.Error(err))
		respondServiceError(w, h.logger, err, "get_assessment_failed")
		return
	}

	if assessment == nil {
		if err := ErrorResponse(w, http.StatusNotFound, "assessment_not_found", "Impact assessment not found"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: assessment}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/impact-assessments.
// Significance in the request body is ignored; the service derives it from
// intensity and probability.
func (h *ImpactAssessmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var assessment models.ImpactAssessment
	if err := json.NewDecoder(r.Body).Decode(&assessment); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.assessmentService.Create(r.Context(), &assessment); err != nil {
		h.logger.Error("Failed to create impact assessment", zap.Error(err))
		respondServiceError(w, h.logger, err, "create_assessment_failed")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: assessment}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/impact-assessments/{id}
func (h *ImpactAssessmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	var assessment models.ImpactAssessment
	if err := json.NewDecoder(r.Body).Decode(&assessment); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	assessment.ID = id

	if err := h.assessmentService.Update(r.Context(), &assessment); err != nil {
		h.logger.Error("Failed to update impact assessment",
			zap.String("assessment_id", id.String()),
			zap.Error(err))
		respondServiceError(w, h.logger, err, "update_assessment_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: assessment}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/impact-assessments/{id} and DELETE /api/impact-assessments?id=
func (h *ImpactAssessmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.assessmentService.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete impact assessment",
			zap.String("assessment_id", id.String()),
			zap.Error(err))
		respondServiceError(w, h.logger, err, "delete_assessment_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
