package pages

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/social-dashboard/infrastructure/backend"
	"github.com/vfg2006/social-dashboard/internal/domain"
)

type stubResult struct {
	value string
	empty bool
}

func (s stubResult) IsEmpty() bool { return s.empty }

type reply struct {
	result Result
	err    error
}

// controlledFetcher entrega a resposta de cada chamada somente quando o
// teste envia no canal correspondente, ignorando o cancelamento
type controlledFetcher struct {
	mu      sync.Mutex
	calls   int
	replies []chan reply
	started chan int
}

func newControlledFetcher(n int) *controlledFetcher {
	f := &controlledFetcher{started: make(chan int, n)}
	for i := 0; i < n; i++ {
		f.replies = append(f.replies, make(chan reply, 1))
	}
	return f
}

func (f *controlledFetcher) Fetch(ctx context.Context, filters domain.Filters) (Result, error) {
	f.mu.Lock()
	i := f.calls
	f.calls++
	f.mu.Unlock()

	f.started <- i
	r := <-f.replies[i]
	return r.result, r.err
}

func awaitState(t *testing.T, p *Page, id uint64) (State, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return p.Await(ctx, id)
}

func TestPage_OlderResponseResolvedAfterNewerIsDiscarded(t *testing.T) {
	fetcher := newControlledFetcher(2)
	page := New(domain.PageInstagram, fetcher)

	first := page.Load(context.Background(), domain.Filters{AccountID: "a"})
	<-fetcher.started
	second := page.Load(context.Background(), domain.Filters{AccountID: "b"})
	<-fetcher.started

	assert.Greater(t, second, first)

	fetcher.replies[1] <- reply{result: stubResult{value: "novo"}}
	st, err := awaitState(t, page, second)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, st.Status)

	fetcher.replies[0] <- reply{result: stubResult{value: "antigo"}}
	page.Wait()

	current := page.State()
	assert.Equal(t, second, current.RequestID)
	assert.Equal(t, stubResult{value: "novo"}, current.Data)
	assert.Equal(t, "b", current.Filters.AccountID)

	_, err = page.Await(context.Background(), first)
	assert.ErrorIs(t, err, ErrSuperseded)
}

func TestPage_SingleTerminalTransitionPerRequest(t *testing.T) {
	fetcher := newControlledFetcher(1)
	page := New(domain.PageFacebook, fetcher)

	var mu sync.Mutex
	var statuses []Status
	unsubscribe := page.Subscribe(func(st State) {
		mu.Lock()
		defer mu.Unlock()
		statuses = append(statuses, st.Status)
	})
	defer unsubscribe()

	id := page.Load(context.Background(), domain.Filters{})
	<-fetcher.started
	fetcher.replies[0] <- reply{result: stubResult{value: "ok"}}

	_, err := awaitState(t, page, id)
	require.NoError(t, err)
	page.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Status{StatusLoading, StatusReady}, statuses)
}

func TestPage_SupersededRequestNeverOverwrites(t *testing.T) {
	fetcher := newControlledFetcher(2)
	page := New(domain.PageAds, fetcher)

	var mu sync.Mutex
	var seen []State
	page.Subscribe(func(st State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, st)
	})

	first := page.Load(context.Background(), domain.Filters{})
	<-fetcher.started
	second := page.Load(context.Background(), domain.Filters{})
	<-fetcher.started

	fetcher.replies[0] <- reply{err: &backend.Error{Kind: backend.KindRateLimit}}
	fetcher.replies[1] <- reply{result: stubResult{empty: true}}

	st, err := awaitState(t, page, second)
	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, st.Status)
	page.Wait()

	mu.Lock()
	defer mu.Unlock()
	for _, s := range seen {
		if s.RequestID == first {
			assert.Equal(t, StatusLoading, s.Status, "requisição substituída só publica loading")
		}
	}
	assert.Equal(t, StatusEmpty, page.State().Status)
}

func TestPage_CancelInvalidatesInFlight(t *testing.T) {
	fetcher := newControlledFetcher(1)
	page := New(domain.PageReports, fetcher)

	id := page.Load(context.Background(), domain.Filters{})
	<-fetcher.started

	page.Cancel()
	fetcher.replies[0] <- reply{result: stubResult{value: "tarde"}}
	page.Wait()

	st, err := page.Await(context.Background(), id)
	assert.ErrorIs(t, err, ErrCanceled)
	assert.Equal(t, StatusIdle, st.Status)
	assert.Equal(t, id, st.RequestID)
	assert.Nil(t, st.Data)
}

func TestPage_LoadAfterCancel(t *testing.T) {
	fetcher := newControlledFetcher(2)
	page := New(domain.PageReports, fetcher)

	canceled := page.Load(context.Background(), domain.Filters{})
	<-fetcher.started
	page.Cancel()
	fetcher.replies[0] <- reply{result: stubResult{value: "tarde"}}

	next := page.Load(context.Background(), domain.Filters{})
	<-fetcher.started
	fetcher.replies[1] <- reply{result: stubResult{value: "novo"}}

	st, err := awaitState(t, page, next)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, st.Status)
	assert.Equal(t, stubResult{value: "novo"}, st.Data)

	_, err = page.Await(context.Background(), canceled)
	assert.ErrorIs(t, err, ErrSuperseded)
	page.Wait()
}

func TestPage_CallerContextCanceled(t *testing.T) {
	page := New(domain.PageInstagram, FetcherFunc(func(ctx context.Context, _ domain.Filters) (Result, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	id := page.Load(ctx, domain.Filters{})
	cancel()

	_, err := awaitState(t, page, id)
	assert.ErrorIs(t, err, ErrCanceled)
	assert.Equal(t, StatusIdle, page.State().Status)
}

func TestPage_AwaitUnknownRequest(t *testing.T) {
	page := New(domain.PageAdmin, FetcherFunc(func(context.Context, domain.Filters) (Result, error) {
		return stubResult{}, nil
	}))

	_, err := page.Await(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnknownRequest)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		err    error
		status Status
		action RecoveryAction
		kind   string
	}{
		{"Resultado com dados", stubResult{value: "x"}, nil, StatusReady, ActionNone, ""},
		{"Resultado vazio", stubResult{empty: true}, nil, StatusEmpty, ActionNone, ""},
		{"Resultado nulo", nil, nil, StatusEmpty, ActionNone, ""},
		{"Sem dados", nil, &backend.Error{Kind: backend.KindNoData}, StatusEmpty, ActionNone, ""},
		{"Permissão negada", nil, &backend.Error{Kind: backend.KindPermissionDenied}, StatusError, ActionReconnect, "permission_denied"},
		{"Erro de integração", nil, &backend.Error{Kind: backend.KindIntegrationError}, StatusError, ActionReconnect, "integration_error"},
		{"Limite de requisições", nil, &backend.Error{Kind: backend.KindRateLimit}, StatusError, ActionRetry, "rate_limit"},
		{"Timeout", nil, &backend.Error{Kind: backend.KindTimeout}, StatusError, ActionRetry, "timeout"},
		{"Falha de rede", nil, &backend.Error{Kind: backend.KindNetworkFailure}, StatusError, ActionRetry, "network_failure"},
		{"Erro HTTP", nil, &backend.Error{Kind: backend.KindHTTPError, Message: "boom"}, StatusError, ActionRetry, "http_error"},
		{"Sessão expirada", nil, &backend.Error{Kind: backend.KindUnauthorized}, StatusError, ActionLogin, "unauthorized"},
		{"Conta sem a rede", nil, ErrNotConnected, StatusError, ActionReconnect, KindNotConnected},
		{"Erro desconhecido", nil, errors.New("x"), StatusError, ActionRetry, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, pageErr, action := Classify(tt.result, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.action, action)
			if tt.kind == "" {
				assert.Nil(t, pageErr)
				return
			}
			require.NotNil(t, pageErr)
			assert.Equal(t, tt.kind, pageErr.Kind)
			assert.NotEmpty(t, pageErr.Message)
		})
	}
}
