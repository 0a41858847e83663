package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// MutationAuditor records successful writes for the security audit trail.
// It is satisfied by audit.SecurityAuditor; defined here so the audit
// package can depend on auth for claims extraction.
type MutationAuditor interface {
	LogMutation(ctx context.Context, method, path, clientIP string)
}

// Middleware provides HTTP authentication middleware.
// It is thin and delegates token validation to a TokenValidator.
type Middleware struct {
	validator TokenValidator
	auditor   MutationAuditor
	logger    *zap.Logger
}

// NewMiddleware creates a new auth middleware with the given TokenValidator.
// auditor may be nil to disable the mutation audit trail.
func NewMiddleware(validator TokenValidator, auditor MutationAuditor, logger *zap.Logger) *Middleware {
	return &Middleware{
		validator: validator,
		auditor:   auditor,
		logger:    logger,
	}
}

// RequireAuth validates the Bearer token on the request and sets claims
// in context for downstream handlers. Successful writes are recorded in
// the security audit trail with the authenticated user attached.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			m.unauthorized(w, "Authentication required")
			return
		}

		claims, err := m.validator.ValidateToken(tokenString)
		if err != nil {
			m.logger.Debug("Token validation failed", zap.Error(err))
			m.unauthorized(w, "Authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)

		if m.auditor == nil || !isMutation(r) {
			next(w, r.WithContext(ctx))
			return
		}

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r.WithContext(ctx))

		// Rejected writes (validation errors, conflicts) are already logged
		// by their handlers; the trail tracks what actually changed.
		if recorder.status < 400 {
			m.auditor.LogMutation(ctx, r.Method, r.URL.Path, r.RemoteAddr)
		}
	}
}

// isMutation reports whether the request writes a compliance record.
func isMutation(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// bearerToken extracts the Bearer token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
