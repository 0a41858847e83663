package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockValidator implements TokenValidator for middleware tests.
type mockValidator struct {
	claims *Claims
	err    error
	tokens []string
}

func (m *mockValidator) ValidateToken(tokenString string) (*Claims, error) {
	m.tokens = append(m.tokens, tokenString)
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func (m *mockValidator) Close() {}

func TestRequireAuth_MissingHeader(t *testing.T) {
	middleware := NewMiddleware(&mockValidator{}, nil, zap.NewNop())

	called := false
	handler := middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "unauthorized", body["error"])
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	middleware := NewMiddleware(&mockValidator{}, nil, zap.NewNop())

	handler := middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	for _, header := range []string{"token-without-scheme", "Basic dXNlcjpwYXNz"} {
		req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	validator := &mockValidator{err: errors.New("token expired")}
	middleware := NewMiddleware(validator, nil, zap.NewNop())

	handler := middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, []string{"expired-token"}, validator.tokens)
}

func TestRequireAuth_ValidTokenSetsClaims(t *testing.T) {
	validator := &mockValidator{
		claims: &Claims{Email: "inspector@example.org", Roles: []string{"compliance"}},
	}
	middleware := NewMiddleware(validator, nil, zap.NewNop())

	var gotClaims *Claims
	handler := middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		require.True(t, ok)
		gotClaims = claims
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "inspector@example.org", gotClaims.Email)
	assert.Equal(t, []string{"compliance"}, gotClaims.Roles)
}

// mockAuditor implements MutationAuditor for middleware tests.
type mockAuditor struct {
	mutations []string
	userIDs   []string
}

func (m *mockAuditor) LogMutation(ctx context.Context, method, path, clientIP string) {
	m.mutations = append(m.mutations, method+" "+path)
	m.userIDs = append(m.userIDs, GetUserIDFromContext(ctx))
}

func TestRequireAuth_AuditsSuccessfulMutation(t *testing.T) {
	validator := &mockValidator{claims: &Claims{}}
	validator.claims.Subject = "user-42"
	auditor := &mockAuditor{}
	middleware := NewMiddleware(validator, auditor, zap.NewNop())

	handler := middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/complaints", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"POST /api/complaints"}, auditor.mutations)
	assert.Equal(t, []string{"user-42"}, auditor.userIDs)
}

func TestRequireAuth_SkipsAuditForReadsAndFailedWrites(t *testing.T) {
	validator := &mockValidator{claims: &Claims{}}
	auditor := &mockAuditor{}
	middleware := NewMiddleware(validator, auditor, zap.NewNop())

	okHandler := middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	failHandler := middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	getReq := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
	getReq.Header.Set("Authorization", "Bearer good-token")
	okHandler(httptest.NewRecorder(), getReq)

	postReq := httptest.NewRequest(http.MethodPost, "/api/complaints", nil)
	postReq.Header.Set("Authorization", "Bearer good-token")
	failHandler(httptest.NewRecorder(), postReq)

	assert.Empty(t, auditor.mutations)
}

func TestGetClaims_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetClaims(req.Context())
	assert.False(t, ok)
}
