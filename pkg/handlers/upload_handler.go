package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/conformahq/conforma-engine/pkg/auth"
	"github.com/conformahq/conforma-engine/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// UploadResponse for POST /uploads
type UploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// ============================================================================
// Handler
// ============================================================================

// UploadHandler handles attachment upload HTTP requests.
type UploadHandler struct {
	storage   services.ObjectStorage
	maxSizeMB int64
	logger    *zap.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(storage services.ObjectStorage, maxSizeMB int64, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		storage:   storage,
		maxSizeMB: maxSizeMB,
		logger:    logger,
	}
}

// RegisterRoutes registers the upload handler's routes on the given mux.
func (h *UploadHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/uploads", authMiddleware.RequireAuth(h.Upload))
}

// Upload handles POST /api/uploads. Expects a multipart form with a single
// "file" part and responds with the stored object's public URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.maxSizeMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_upload", "Expected multipart form with a 'file' part"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	defer file.Close()

	url, err := h.storage.Store(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.Error("Failed to store upload",
			zap.String("filename", header.Filename),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "upload_failed", "Failed to store file"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	h.logger.Info("Attachment uploaded",
		zap.String("filename", header.Filename),
		zap.Int64("size_bytes", header.Size))

	response := UploadResponse{
		URL:      url,
		Filename: header.Filename,
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
