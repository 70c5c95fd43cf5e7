package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/social-dashboard/internal/session"
	"github.com/vfg2006/social-dashboard/pkg/log"
)

func tokenFor(t *testing.T, role string, expiresAt time.Time) string {
	t.Helper()
	claims := session.Claims{
		Email:            "ana@example.com",
		Role:             role,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("segredo"))
	require.NoError(t, err)
	return token
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSessionMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
	}{
		{"Rota pública sem sessão", "/v1/auth/login", "", http.StatusOK},
		{"Rota privada sem sessão", "/v1/accounts", "", http.StatusUnauthorized},
		{"Sessão válida", "/v1/accounts", tokenFor(t, RoleUser, time.Now().Add(time.Hour)), http.StatusOK},
		{"Sessão expirada", "/v1/accounts", tokenFor(t, RoleUser, time.Now().Add(-time.Hour)), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := session.New("")
			if tt.token != "" {
				require.NoError(t, sess.Set(tt.token))
			}

			rec := httptest.NewRecorder()
			SessionMiddleware(sess)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestSessionMiddleware_ExpiredClearsSession(t *testing.T) {
	sess := session.New("")
	require.NoError(t, sess.Set(tokenFor(t, RoleUser, time.Now().Add(-time.Minute))))

	rec := httptest.NewRecorder()
	SessionMiddleware(sess)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/filters", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, sess.Token())
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"Administrador", RoleAdmin, http.StatusOK},
		{"Usuário comum", RoleUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := session.New("")
			require.NoError(t, sess.Set(tokenFor(t, tt.role, time.Now().Add(time.Hour))))

			h := SessionMiddleware(sess)(AdminOnly()(okHandler))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/cron/status", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCors(t *testing.T) {
	h := Cors([]string{"http://localhost:3000"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/v1/accounts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/v1/accounts", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggingMiddleware_PropagatesCorrelationID(t *testing.T) {
	var seen string
	h := LoggingMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = log.GetCorrelationID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/pages/ads", nil)
	req.Header.Set(log.CorrelationIDHeader, "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", rec.Header().Get(log.CorrelationIDHeader))
}

func TestLogPanicMiddleware(t *testing.T) {
	h := LogPanicMiddleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("falhou")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/accounts", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPageFromPath(t *testing.T) {
	assert.Equal(t, "ads", pageFromPath("/v1/pages/ads"))
	assert.Equal(t, "instagram", pageFromPath("/v1/pages/instagram/charts/reach"))
	assert.Empty(t, pageFromPath("/v1/accounts"))
}
