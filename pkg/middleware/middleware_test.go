package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/records-api/internal/domain"
	"github.com/vfg2006/records-api/pkg/log"
)

type stubValidator struct {
	claims *domain.Claims
}

func (s stubValidator) ValidateToken(token string) (*domain.Claims, error) {
	if token == "expired" {
		return nil, fmt.Errorf("token expirado: %w", jwt.ErrTokenExpired)
	}
	if token != "valid" {
		return nil, errors.New("invalid")
	}
	return s.claims, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddleware(t *testing.T) {
	claims := &domain.Claims{UserID: 7, UserRoleID: domain.RoleViewer}
	handler := AuthMiddleware(stubValidator{claims: claims})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := ClaimsFromContext(r.Context())
		if ok {
			assert.Equal(t, 7, got.UserID)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{name: "rota pública", path: "/metrics", status: http.StatusNoContent},
		{name: "sem cabeçalho", path: "/v1/records", status: http.StatusUnauthorized},
		{name: "sem bearer", path: "/v1/records", header: "valid", status: http.StatusUnauthorized},
		{name: "token inválido", path: "/v1/records", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "token válido", path: "/v1/records", header: "Bearer valid", status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	handler := AuthMiddleware(stubValidator{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/records", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "AUTH_007")
}

func TestRoleMiddleware(t *testing.T) {
	handler := AdminOrAnalyst()(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/v1/records", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	viewer := req.WithContext(WithClaims(req.Context(), &domain.Claims{UserID: 1, UserRoleID: domain.RoleViewer}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "AUTH_008")

	analyst := req.WithContext(WithClaims(req.Context(), &domain.Claims{UserID: 2, UserRoleID: domain.RoleAnalyst}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, analyst)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCors(t *testing.T) {
	handler := Cors([]string{"http://localhost:3000"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/v1/records", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/v1/records", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogPanicMiddleware(t *testing.T) {
	handler := LogPanicMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLoggingMiddleware_CapturesStatusAndBytes(t *testing.T) {
	var captured *loggingResponseWriter
	handler := LoggingMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = w.(*loggingResponseWriter)
		assert.NotEmpty(t, log.GetCorrelationID(r.Context()))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/records", nil))

	require.NotNil(t, captured)
	assert.Equal(t, http.StatusCreated, captured.statusCode)
	assert.Equal(t, 2, captured.written)
	assert.Equal(t, "ok", rec.Body.String())
}
