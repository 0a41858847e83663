package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/conformahq/conforma-engine/pkg/apperrors"
	"github.com/conformahq/conforma-engine/pkg/audit"
	"github.com/conformahq/conforma-engine/pkg/auth"
	"github.com/conformahq/conforma-engine/pkg/jsonutil"
	"github.com/conformahq/conforma-engine/pkg/models"
	"github.com/conformahq/conforma-engine/pkg/services"
	sqlcheck "github.com/conformahq/conforma-engine/pkg/sql"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// ReferenceEntityListResponse for GET /reference-entities
type ReferenceEntityListResponse struct {
	Entities []*models.ReferenceEntity `json:"entities"`
	Total    int                       `json:"total"`
}

// CreateReferenceEntityRequest for POST /reference-entities.
// PendingFor names the parent resource the entity is being created for
// (e.g. "complaints") when the create originates inside a parent form;
// leave it empty for standalone creation.
// Field values are raw JSON: frontends occasionally send numbers where
// strings are expected (phone-like contact methods), so values are
// coerced rather than rejected.
type CreateReferenceEntityRequest struct {
	Kind       string                     `json:"kind"`
	Name       string                     `json:"name"`
	Fields     map[string]json.RawMessage `json:"fields,omitempty"`
	PendingFor string                     `json:"pending_for,omitempty"`
}

// KindListResponse for GET /reference-kinds
type KindListResponse struct {
	Kinds []services.KindDefinition `json:"kinds"`
}

// ============================================================================
// Handler
// ============================================================================

// ReferenceEntityHandler handles reference entity HTTP requests.
type ReferenceEntityHandler struct {
	entityService services.ReferenceEntityService
	auditor       *audit.SecurityAuditor
	logger        *zap.Logger
}

// NewReferenceEntityHandler creates a new reference entity handler.
// auditor may be nil to disable security audit events.
func NewReferenceEntityHandler(
	entityService services.ReferenceEntityService,
	auditor *audit.SecurityAuditor,
	logger *zap.Logger,
) *ReferenceEntityHandler {
	return &ReferenceEntityHandler{
		entityService: entityService,
		auditor:       auditor,
		logger:        logger,
	}
}

// RegisterRoutes registers the reference entity handler's routes on the given mux.
func (h *ReferenceEntityHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/reference-entities", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/reference-entities/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("POST /api/reference-entities", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/reference-kinds", authMiddleware.RequireAuth(h.Kinds))
}

// List handles GET /api/reference-entities?kind=department&q=maint
func (h *ReferenceEntityHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	search := r.URL.Query().Get("q")

	entities, err := h.entityService.List(r.Context(), kind, search)
	if err != nil {
		if errors.Is(err, apperrors.ErrInjectionDetected) && h.auditor != nil {
			details := audit.InjectionDetails{ParamName: "q", ParamValue: search}
			if result := sqlcheck.CheckInput("q", search); result != nil {
				details.Fingerprint = result.Fingerprint
			}
			h.auditor.LogInjectionAttempt(r.Context(), details, r.RemoteAddr)
		}
		h.logger.Error("Failed to list reference entities",
			zap.String("kind", kind),
			zap.Error(err))
		respondServiceError(w, h.logger, err, "list_entities_failed")
		return
	}

	response := ReferenceEntityListResponse{
		Entities: entities,
		Total:    len(entities),
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/reference-entities/{id}
func (h *ReferenceEntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	entity, err := h.entityService.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get reference entity",
			zap.String("entity_id", id.String()),
			zap.Error(err))
		respondServiceError(w, h.logger, err, "get_entity_failed")
		return
	}

	if entity == nil {
		if err := ErrorResponse(w, http.StatusNotFound, "entity_not_found", "Reference entity not found"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: entity}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/reference-entities
func (h *ReferenceEntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReferenceEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var fields map[string]string
	if len(req.Fields) > 0 {
		fields = make(map[string]string, len(req.Fields))
		for name, raw := range req.Fields {
			fields[name] = jsonutil.FlexibleStringValue(raw)
		}
	}

	entity := &models.ReferenceEntity{
		Kind:   req.Kind,
		Name:   req.Name,
		Fields: fields,
	}

	if err := h.entityService.Create(r.Context(), entity, req.PendingFor); err != nil {
		h.logger.Error("Failed to create reference entity",
			zap.String("kind", req.Kind),
			zap.Error(err))
		respondServiceError(w, h.logger, err, "create_entity_failed")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: entity}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Kinds handles GET /api/reference-kinds
func (h *ReferenceEntityHandler) Kinds(w http.ResponseWriter, r *http.Request) {
	response := KindListResponse{Kinds: h.entityService.Kinds()}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
