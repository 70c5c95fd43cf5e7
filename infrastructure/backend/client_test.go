package backend

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/social-dashboard/infrastructure/cache"
	"github.com/vfg2006/social-dashboard/internal/config"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/session"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration, opts ...Option) (*Client, *session.Session) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess := session.New("")
	client := NewClient(config.Backend{BaseURL: srv.URL, Timeout: timeout, LongTimeout: 2 * timeout}, sess, opts...)
	return client, sess
}

func TestClient_TimeoutIsNotNetworkFailure(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)

	_, err := client.InstagramInsights(context.Background(), InsightsQuery{ID: "ig1", Range: domain.DateRange{Since: 1, Until: 2}})
	require.Error(t, err)
	assert.Equal(t, KindTimeout, KindOf(err))
}

func TestClient_NetworkFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	client := NewClient(config.Backend{BaseURL: "http://" + addr, Timeout: time.Second}, session.New(""))

	_, err = client.AdminOverview(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNetworkFailure, KindOf(err))
}

func TestClient_CallerCancellationIsNotClassified(t *testing.T) {
	started := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.AdminOverview(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, Kind(""), KindOf(err))
}

func TestClient_BearerTokenAndEnvelope(t *testing.T) {
	var auth string
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, "123", r.URL.Query().Get("page_id"))
		assert.Equal(t, "1700000000", r.URL.Query().Get("since"))
		assert.Equal(t, "1700600000", r.URL.Query().Get("until"))
		w.Write([]byte(`{"data": {"page_id": "123", "reach": 42}, "meta": {"source": "graph"}}`))
	}, time.Second)

	require.NoError(t, sess.Set("opaque-token"))

	out, err := client.FacebookInsights(context.Background(), InsightsQuery{ID: "123", Range: domain.DateRange{Since: 1700000000, Until: 1700600000}})
	require.NoError(t, err)
	assert.Equal(t, "Bearer opaque-token", auth)
	assert.Equal(t, int64(42), out.Reach)
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"code": "INVALID_TOKEN", "message": "token inválido"}}`))
	}, time.Second)

	require.NoError(t, sess.Set("expired"))

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.Empty(t, sess.Token())
}

func TestClient_HTTPErrorBodies(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Kind
	}{
		{"Erro da Graph API repassado", http.StatusBadRequest, `{"error": {"message": "limit", "type": "OAuthException", "code": 4}}`, KindRateLimit},
		{"Token da Meta expirado", http.StatusBadRequest, `{"error": {"message": "expired", "type": "OAuthException", "code": 190}}`, KindIntegrationError},
		{"Corpo plano com código", http.StatusForbidden, `{"code": "FORBIDDEN", "message": "sem acesso"}`, KindPermissionDenied},
		{"Erro genérico", http.StatusInternalServerError, `{"message": "boom"}`, KindHTTPError},
		{"Corpo não JSON", http.StatusBadGateway, `bad gateway`, KindIntegrationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}, time.Second)

			_, err := client.AdsInsights(context.Background(), InsightsQuery{ID: "act_1"})
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err))

			var be *Error
			require.True(t, errors.As(err, &be))
			assert.Equal(t, tt.status, be.Status)
		})
	}
}

func TestClient_NoData(t *testing.T) {
	t.Run("Meta no_data", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": {}, "meta": {"no_data": true}}`))
		}, time.Second)

		_, err := client.InstagramInsights(context.Background(), InsightsQuery{ID: "ig"})
		assert.Equal(t, KindNoData, KindOf(err))
	})

	t.Run("Lista vazia", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": []}`))
		}, time.Second)

		_, err := client.InstagramInsights(context.Background(), InsightsQuery{ID: "ig"})
		assert.Equal(t, KindNoData, KindOf(err))
	})

	t.Run("Envelope com erro em 200", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": {"code": "NO_DATA"}}`))
		}, time.Second)

		_, err := client.FacebookInsights(context.Background(), InsightsQuery{ID: "p"})
		assert.Equal(t, KindNoData, KindOf(err))
	})
}

func TestClient_LoginStoresToken(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body domain.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body.Email)

		w.Write([]byte(`{"data": {"token": "tok-1", "user": {"id": "u1", "email": "ana@example.com"}}}`))
	}, time.Second)

	resp, err := client.Login(context.Background(), domain.LoginRequest{Email: " Ana@Example.com ", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, "tok-1", sess.Token())
}

func TestClient_LoginWithoutToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user": {"id": "u1"}}`))
	}, time.Second)

	_, err := client.Register(context.Background(), domain.RegisterRequest{Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestClient_DiscoverAccounts(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"id": "123", "name": " Loja A ", "instagram_business_account_id": "ig1", "ad_accounts": [{"id": "act_99", "name": "Ads A"}]},
			{"id": "", "name": "sem id"},
			{"id": "456", "name": "Loja B"}
		]}`))
	}, time.Second)

	accounts, err := client.DiscoverAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	assert.Equal(t, "fb_123", accounts[0].ID)
	assert.Equal(t, "Loja A", accounts[0].Label)
	assert.Equal(t, "ig1", accounts[0].InstagramUserID)
	assert.Equal(t, "99", accounts[0].AdAccountID)
	assert.Equal(t, domain.AccountSourceMeta, accounts[0].Source)
	assert.Empty(t, accounts[1].AdAccountID)
}

func TestClient_CacheClearedOnSessionChange(t *testing.T) {
	var calls int32
	rc, err := cache.New(config.Cache{Enabled: true, MaxSizeMB: 1, TTLSeconds: 60, CounterSize: 100})
	require.NoError(t, err)
	defer rc.Close()

	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"total_users": 3}`))
	}, time.Second, WithCache(rc))

	require.NoError(t, sess.Set("a"))

	_, err = client.AdminOverview(context.Background())
	require.NoError(t, err)
	rc.Wait()

	out, err := client.AdminOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.TotalUsers)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	require.NoError(t, sess.Set("b"))

	_, err = client.AdminOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNormalizeAdAccountID(t *testing.T) {
	assert.Equal(t, "123", NormalizeAdAccountID("act_123"))
	assert.Equal(t, "123", NormalizeAdAccountID(" 123 "))
}
