package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conformahq/conforma-engine/pkg/auth"
	"github.com/conformahq/conforma-engine/pkg/models"
	"github.com/conformahq/conforma-engine/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// IncidentReportListResponse for GET /incident-reports
type IncidentReportListResponse struct {
	Reports []*models.IncidentReport `json:"reports"`
	Total   int                      `json:"total"`
}

// ============================================================================
// Handler
// ============================================================================

// IncidentReportHandler handles incident report HTTP requests.
type IncidentReportHandler struct {
	reportService services.IncidentReportService
	logger        *zap.Logger
}

// NewIncidentReportHandler creates a new incident report handler.
func NewIncidentReportHandler(
	reportService services.IncidentReportService,
	logger *zap.Logger,
) *IncidentReportHandler {
	return &IncidentReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// RegisterRoutes registers the incident report handler's routes on the given mux.
func (h *IncidentReportHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/incident-reports", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/incident-reports/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("POST /api/incident-reports", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("PUT /api/incident-reports/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/incident-reports/{id}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("DELETE /api/incident-reports", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("POST /api/incident-reports/{id}/participants/{participantId}",
		authMiddleware.RequireAuth(h.ToggleParticipant))
}

// List handles GET /api/incident-reports
func (h *IncidentReportHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reportService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list incident reports", zap.Error(err))
		respondServiceError(w, h.logger, err, "list_reports_failed")
		return
	}

	response := IncidentReportListResponse{
		Reports: reports,
		Total:   len(reports),
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/incident-reports/{id}
func (h *IncidentReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	report, err := h.reportService.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get incident report",
			zap.String("report_id", id.String()),
			zap.Error(err))
		respondServiceError(w, h.logger, err, "get_report_failed")
		return
	}

	if report == nil {
		if err := ErrorResponse(w, http.StatusNotFound, "report_not_found", "Incident report not found"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: report}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/incident-reports
func (h *IncidentReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var report models.IncidentReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.reportService.Create(r.Context(), &report); err != nil {
		h.logger.Error("Failed to create incident report", zap.Error(err))
		respondServiceError(w, h.logger, err, "create_report_failed")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: report}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/incident-reports/{id}
func (h *IncidentReportHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	var report models.IncidentReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	report.ID = id

	if err := h.reportService.Update(r.Context(), &report); err != nil {
		h.logger.Error("Failed to update incident report",
			zap.String("report_id", id.String()),
			zap.Error(err))
		respondServiceError(w, h.logger, err, "update_report_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: report}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/incident-reports/{id} and DELETE /api/incident-reports?id=
func (h *IncidentReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.reportService.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete incident report",
			zap.String("report_id", id.String()),
			zap.Error(err))
		respondServiceError(w, h.logger, err, "delete_report_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ToggleParticipant handles POST /api/incident-reports/{id}/participants/{participantId}.
// It adds the participant to the report's selection if absent, removes it if
// present, and returns the updated report.
func (h *IncidentReportHandler) ToggleParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	participantID, err := uuid.Parse(r.PathValue("participantId"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_participant_id", "Invalid participant ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	report, err := h.reportService.ToggleParticipant(r.Context(), id, participantID)
	if err != nil {
		h.logger.Error("Failed to toggle participant",
			zap.String("report_id", id.String()),
			zap.String("participant_id", participantID.String()),
			zap.Error(err))
		respondServiceError(w, h.logger, err, "toggle_participant_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: report}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
