package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/social-dashboard/infrastructure/backend"
	"github.com/vfg2006/social-dashboard/infrastructure/repository"
	handlermocks "github.com/vfg2006/social-dashboard/internal/api/handler/mocks"
	"github.com/vfg2006/social-dashboard/internal/config"
	"github.com/vfg2006/social-dashboard/internal/dashboard"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/metrics"
	"github.com/vfg2006/social-dashboard/internal/pages"
	pagemocks "github.com/vfg2006/social-dashboard/internal/pages/mocks"
	"github.com/vfg2006/social-dashboard/internal/querystate"
	"github.com/vfg2006/social-dashboard/internal/scheduler"
	"github.com/vfg2006/social-dashboard/internal/session"
	"github.com/vfg2006/social-dashboard/internal/usecases/account"
	accountmocks "github.com/vfg2006/social-dashboard/internal/usecases/account/mocks"
	"go.uber.org/mock/gomock"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const rangeQuery = "since=1700000000&until=1700604799"

type testServer struct {
	handler http.Handler
	auth    *handlermocks.MockAuthenticator
	backend *pagemocks.MockBackend
	session *session.Session
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	claims := session.Claims{
		Email: "ana@example.com",
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("segredo"))
	require.NoError(t, err)
	return token
}

func newTestServer(t *testing.T, role string) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)

	discoverer := accountmocks.NewMockDiscoverer(ctrl)
	discoverer.EXPECT().DiscoverAccounts(gomock.Any()).Return(nil, errors.New("backend fora do ar")).AnyTimes()

	repo := repository.NewMemoryAccountRepository(
		domain.Account{ID: "a", Label: "Loja A", InstagramUserID: "ig1", Source: domain.AccountSourceManual},
		domain.Account{ID: "b", Label: "Loja B", FacebookPageID: "fb1", Source: domain.AccountSourceManual},
	)
	registry := account.NewRegistry(repo, discoverer, nil, time.Second)

	client := pagemocks.NewMockBackend(ctrl)
	policy := metrics.DefaultPolicy()

	store := querystate.New(&url.URL{Path: "/dashboard"}, nil, nil)
	app := dashboard.New(store, registry, domain.ThemeLight,
		pages.New(domain.PageInstagram, pages.NewInstagramFetcher(client, policy)),
		pages.New(domain.PageFacebook, pages.NewFacebookFetcher(client, policy)),
		pages.New(domain.PageAds, pages.NewAdsFetcher(client, policy)),
		pages.New(domain.PageReports, pages.NewReportsFetcher(client, policy)),
		pages.New(domain.PageAdmin, pages.NewAdminFetcher(client)),
	)
	app.Start(context.Background())
	t.Cleanup(app.Stop)

	sess := session.New("")
	if role != "" {
		require.NoError(t, sess.Set(signToken(t, role)))
	}

	auth := handlermocks.NewMockAuthenticator(ctrl)

	cfg := &config.Config{
		Server: config.Server{AllowedOrigins: []string{"http://localhost:5173"}},
	}
	deps := Dependencies{
		App:           app,
		Accounts:      registry,
		Authenticator: auth,
		Session:       sess,
		DiscoverySync: scheduler.NewAccountDiscoverySyncService(registry, config.Discovery{CronSchedule: "*/30 * * * *"}, time.UTC),
		Location:      time.UTC,
	}

	return &testServer{
		handler: NewHandler(cfg, deps),
		auth:    auth,
		backend: client,
		session: sess,
	}
}

func (s *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func instagramInsights() *domain.InstagramInsights {
	return &domain.InstagramInsights{
		Followers:  1200,
		Reach:      1000,
		Engagement: 50,
		Series: []domain.MetricSeries{
			{Metric: "reach", Values: []domain.DailyValue{{Date: "2023-11-14", Value: 600}, {Date: "2023-11-15", Value: 400}}},
		},
	}
}

func TestServer_Healthcheck(t *testing.T) {
	srv := newTestServer(t, "")

	rec := srv.do(t, http.MethodGet, "/healthcheck", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["authenticated"])
}

func TestServer_RequiresSession(t *testing.T) {
	srv := newTestServer(t, "")

	rec := srv.do(t, http.MethodGet, "/v1/accounts", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_011", decode(t, rec)["code"])
}

func TestServer_UnknownRoute(t *testing.T) {
	srv := newTestServer(t, "user")

	rec := srv.do(t, http.MethodGet, "/v1/nada", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "VAL_005", decode(t, rec)["code"])
}

func TestServer_LoginInvalidCredentials(t *testing.T) {
	srv := newTestServer(t, "")
	srv.auth.EXPECT().
		Login(gomock.Any(), domain.LoginRequest{Email: "ana@example.com", Password: "errada"}).
		Return(nil, &backend.Error{Kind: backend.KindUnauthorized, Status: http.StatusUnauthorized})

	rec := srv.do(t, http.MethodPost, "/v1/auth/login", domain.LoginRequest{Email: "ana@example.com", Password: "errada"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_001", decode(t, rec)["code"])
}

func TestServer_GetPage(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		target     string
		setup      func(s *testServer)
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name:   "Página do Instagram carregada",
			role:   "user",
			target: "/v1/pages/instagram?account=a&" + rangeQuery,
			setup: func(s *testServer) {
				s.backend.EXPECT().
					InstagramInsights(gomock.Any(), backend.InsightsQuery{ID: "ig1", Range: domain.DateRange{Since: 1_700_000_000, Until: 1_700_604_799}}).
					Return(instagramInsights(), nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "ready", body["status"])
				assert.Contains(t, body["charts"], "overview")
				filters := body["filters"].(map[string]any)
				assert.Equal(t, "a", filters["account"].(map[string]any)["id"])
			},
		},
		{
			name:       "Conta sem Facebook pede reconexão",
			role:       "user",
			target:     "/v1/pages/facebook?account=a&" + rangeQuery,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "error", body["status"])
				assert.Equal(t, "reconnect", body["action"])
			},
		},
		{
			name:       "Página desconhecida",
			role:       "user",
			target:     "/v1/pages/vendas",
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "PAG_001", body["code"])
			},
		},
		{
			name:       "Administração sem privilégio",
			role:       "user",
			target:     "/v1/pages/admin",
			wantStatus: http.StatusForbidden,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "AUTH_008", body["code"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.role)
			if tt.setup != nil {
				tt.setup(srv)
			}

			rec := srv.do(t, http.MethodGet, tt.target, nil)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			tt.check(t, decode(t, rec))
		})
	}
}

func TestServer_PageChart(t *testing.T) {
	srv := newTestServer(t, "user")
	srv.backend.EXPECT().InstagramInsights(gomock.Any(), gomock.Any()).Return(instagramInsights(), nil)

	rec := srv.do(t, http.MethodGet, "/v1/pages/instagram/charts/overview", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodGet, "/v1/pages/instagram?account=a&"+rangeQuery, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/v1/pages/instagram/charts/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "echarts")

	rec = srv.do(t, http.MethodGet, "/v1/pages/instagram/charts/inexistente", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PAG_002", decode(t, rec)["code"])
}

func TestServer_ExportReportCSV(t *testing.T) {
	srv := newTestServer(t, "user")
	srv.backend.EXPECT().InstagramInsights(gomock.Any(), gomock.Any()).Return(instagramInsights(), nil).Times(2)

	rec := srv.do(t, http.MethodGet, "/v1/reports/export.csv?account=a&"+rangeQuery, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "relatorio_loja-a_")

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "\uFEFF"))
	assert.Contains(t, body, "Métrica,Valor,Variação,Chave")
	assert.Contains(t, body, "instagram.followers")
}

func TestServer_Filters(t *testing.T) {
	srv := newTestServer(t, "user")

	rec := srv.do(t, http.MethodPatch, "/v1/filters", map[string]any{"since": 1_700_604_799, "until": 1_700_000_000})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL_004", decode(t, rec)["code"])

	rec = srv.do(t, http.MethodPatch, "/v1/filters", map[string]any{"account": "b", "since": 1_700_000_000, "until": 1_700_604_799})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "b", body["account"].(map[string]any)["id"])
	assert.Contains(t, body["location"], "account=b")
}

func TestServer_RemoveSelectedAccount(t *testing.T) {
	srv := newTestServer(t, "user")

	rec := srv.do(t, http.MethodGet, "/v1/filters?account=b", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/v1/accounts/b", nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/v1/accounts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	accounts := body["accounts"].([]any)
	require.Len(t, accounts, 1)
	assert.Equal(t, "a", accounts[0].(map[string]any)["id"])

	rec = srv.do(t, http.MethodDelete, "/v1/accounts/b", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CronRequiresAdmin(t *testing.T) {
	t.Run("Usuário comum", func(t *testing.T) {
		srv := newTestServer(t, "user")
		rec := srv.do(t, http.MethodGet, "/v1/cron/status", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Administrador", func(t *testing.T) {
		srv := newTestServer(t, "admin")
		rec := srv.do(t, http.MethodGet, "/v1/cron/status", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, decode(t, rec), "account-discovery")
	})
}
