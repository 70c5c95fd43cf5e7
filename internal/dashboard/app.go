// Package dashboard mantém o estado da aplicação: filtros da URL, contas,
// tema e o ciclo de carregamento de cada página montada.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/pages"
	"github.com/vfg2006/social-dashboard/internal/querystate"
	"github.com/vfg2006/social-dashboard/internal/session"
	"github.com/vfg2006/social-dashboard/internal/usecases/account"
)

var (
	ErrUnknownPage  = errors.New("unknown page")
	ErrInvalidTheme = errors.New("invalid theme")
	ErrNotStarted   = errors.New("dashboard not started")
)

// filterKeys são as chaves da URL que recarregam as páginas montadas
var filterKeys = []string{domain.QueryAccount, domain.QuerySince, domain.QueryUntil}

//go:generate mockgen -source=app.go -destination=mocks/accounts_mock.go -package=mocks
type Accounts interface {
	Resolve(ctx context.Context, accountID string) (*domain.Account, error)
	Discover(ctx context.Context) (*account.DiscoveryResult, error)
}

type App struct {
	store    *querystate.Store
	accounts Accounts
	pages    map[domain.PageName]*pages.Page
	now      func() time.Time

	mu          sync.Mutex
	mounted     map[domain.PageName]bool
	theme       domain.Theme
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
}

func New(store *querystate.Store, accounts Accounts, theme domain.Theme, list ...*pages.Page) *App {
	if theme != domain.ThemeDark {
		theme = domain.ThemeLight
	}

	byName := make(map[domain.PageName]*pages.Page, len(list))
	for _, p := range list {
		byName[p.Name()] = p
	}

	return &App{
		store:    store,
		accounts: accounts,
		pages:    byName,
		now:      time.Now,
		mounted:  make(map[domain.PageName]bool),
		theme:    theme,
	}
}

// Start liga o app ao ciclo de vida de ctx: observa a URL e dispara a
// descoberta de contas em segundo plano
func (a *App) Start(ctx context.Context) {
	a.mu.Lock()
	if a.ctx != nil {
		a.mu.Unlock()
		return
	}
	a.ctx, a.cancel = context.WithCancel(ctx)
	a.unsubscribe = a.store.Subscribe(a.onQueryChange)
	appCtx := a.ctx
	a.mu.Unlock()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.discover(appCtx)
	}()

	logrus.Info("dashboard: aplicação iniciada")
}

// Stop cancela a descoberta e todas as buscas em andamento
func (a *App) Stop() {
	a.mu.Lock()
	if a.ctx == nil {
		a.mu.Unlock()
		return
	}
	a.unsubscribe()
	a.cancel()
	a.ctx = nil
	a.mounted = make(map[domain.PageName]bool)
	a.mu.Unlock()

	for _, p := range a.pages {
		p.Cancel()
	}

	a.wg.Wait()
	for _, p := range a.pages {
		p.Wait()
	}

	logrus.Info("dashboard: aplicação encerrada")
}

func (a *App) Store() *querystate.Store {
	return a.store
}

func (a *App) Page(name domain.PageName) (*pages.Page, error) {
	p, ok := a.pages[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, name)
	}
	return p, nil
}

// Discover força uma nova descoberta de contas e recarrega as páginas montadas
func (a *App) Discover(ctx context.Context) (*account.DiscoveryResult, error) {
	result, err := a.accounts.Discover(ctx)
	if err != nil {
		return nil, err
	}

	if result.Warning == nil {
		a.reloadMounted()
	}

	return result, nil
}

func (a *App) discover(ctx context.Context) {
	result, err := a.accounts.Discover(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logrus.WithError(err).Error("dashboard: erro na descoberta inicial de contas")
		}
		return
	}

	if result.Warning == nil && result.Discovered > 0 {
		a.reloadMounted()
	}
}

// Mount marca a página como visível e inicia o carregamento. Uma página já
// montada mantém a busca atual.
func (a *App) Mount(ctx context.Context, name domain.PageName) (uint64, error) {
	p, err := a.Page(name)
	if err != nil {
		return 0, err
	}

	a.mu.Lock()
	if a.ctx == nil {
		a.mu.Unlock()
		return 0, ErrNotStarted
	}
	already := a.mounted[name]
	a.mounted[name] = true
	a.mu.Unlock()

	if st := p.State(); already && st.RequestID > 0 && st.Status != pages.StatusIdle {
		return st.RequestID, nil
	}

	return a.load(ctx, p)
}

// Reload inicia uma nova busca da página, como a ação de tentar novamente
func (a *App) Reload(ctx context.Context, name domain.PageName) (uint64, error) {
	if _, err := a.Mount(ctx, name); err != nil {
		return 0, err
	}

	p, _ := a.Page(name)
	return a.load(ctx, p)
}

// Unmount cancela a busca da página, ao navegar para outra tela
func (a *App) Unmount(name domain.PageName) error {
	p, err := a.Page(name)
	if err != nil {
		return err
	}

	a.mu.Lock()
	delete(a.mounted, name)
	a.mu.Unlock()

	p.Cancel()
	return nil
}

// BindSession encerra as páginas quando a sessão termina, por logout ou 401
func (a *App) BindSession(sess *session.Session) {
	sess.OnClear(a.EndSession)
}

// EndSession desmonta as páginas e descarta os dados da sessão anterior.
// Buscas em andamento terminam normalmente, e um 401 chega à página como
// erro com ação de login.
func (a *App) EndSession() {
	a.mu.Lock()
	a.mounted = make(map[domain.PageName]bool)
	a.mu.Unlock()

	for _, p := range a.pages {
		p.Discard()
	}

	logrus.Debug("dashboard: sessão encerrada, páginas descartadas")
}

func (a *App) Mounted() []domain.PageName {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]domain.PageName, 0, len(a.mounted))
	for _, name := range domain.AllPages {
		if a.mounted[name] {
			out = append(out, name)
		}
	}
	return out
}

// Filters lê os filtros atuais da URL e resolve a conta selecionada.
// Sem contas cadastradas a conta fica nula.
func (a *App) Filters(ctx context.Context) (domain.Filters, error) {
	filters := domain.Filters{
		AccountID: a.store.AccountID(),
		Range:     a.store.DateRange(a.now()),
	}

	acc, err := a.accounts.Resolve(ctx, filters.AccountID)
	switch {
	case errors.Is(err, account.ErrNoAccounts):
		return filters, nil
	case err != nil:
		return filters, err
	}

	filters.Account = acc
	return filters, nil
}

func (a *App) Theme() domain.Theme {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.theme
}

func (a *App) SetTheme(theme domain.Theme) error {
	if theme != domain.ThemeLight && theme != domain.ThemeDark {
		return fmt.Errorf("%w: %s", ErrInvalidTheme, theme)
	}

	a.mu.Lock()
	a.theme = theme
	a.mu.Unlock()
	return nil
}

func (a *App) load(ctx context.Context, p *pages.Page) (uint64, error) {
	filters, err := a.Filters(ctx)
	if err != nil {
		return 0, err
	}

	// Stop só espera as páginas depois de zerar ctx sob o mesmo lock
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ctx == nil {
		return 0, ErrNotStarted
	}

	return p.Load(a.ctx, filters), nil
}

func (a *App) onQueryChange(previous, current url.Values) {
	if !querystate.Changed(previous, current, filterKeys...) {
		return
	}

	logrus.WithField("query", current.Encode()).Debug("dashboard: filtros alterados, recarregando páginas")
	a.reloadMounted()
}

func (a *App) reloadMounted() {
	a.mu.Lock()
	appCtx := a.ctx
	a.mu.Unlock()
	if appCtx == nil {
		return
	}

	for _, name := range a.Mounted() {
		p := a.pages[name]
		if _, err := a.load(appCtx, p); err != nil {
			logrus.WithError(err).WithField("page", name).Warn("dashboard: erro ao recarregar página")
		}
	}
}
