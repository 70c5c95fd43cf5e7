// Package pages controla o ciclo de busca de cada página do dashboard.
//
// Cada Load recebe um ID crescente e cancela a busca anterior; apenas o
// resultado do ID mais recente é aplicado ao estado. Os listeners são
// chamados com o lock da página e não devem chamar a página de volta.
package pages

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/social-dashboard/internal/domain"
)

var (
	ErrSuperseded     = errors.New("request superseded by a newer one")
	ErrCanceled       = errors.New("request canceled")
	ErrUnknownRequest = errors.New("unknown request id")
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusEmpty   Status = "empty"
	StatusError   Status = "error"
	StatusReady   Status = "ready"
)

func (s Status) Terminal() bool {
	return s == StatusEmpty || s == StatusError || s == StatusReady
}

type RecoveryAction string

const (
	ActionNone      RecoveryAction = "none"
	ActionRetry     RecoveryAction = "retry"
	ActionReconnect RecoveryAction = "reconnect"
	ActionLogin     RecoveryAction = "login"
)

type PageError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type State struct {
	Page      domain.PageName `json:"page"`
	Status    Status          `json:"status"`
	RequestID uint64          `json:"request_id"`
	Filters   domain.Filters  `json:"filters"`
	Data      Result          `json:"data,omitempty"`
	Error     *PageError      `json:"error,omitempty"`
	Action    RecoveryAction  `json:"action"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Result interface {
	IsEmpty() bool
}

type Fetcher interface {
	Fetch(ctx context.Context, filters domain.Filters) (Result, error)
}

type FetcherFunc func(ctx context.Context, filters domain.Filters) (Result, error)

func (f FetcherFunc) Fetch(ctx context.Context, filters domain.Filters) (Result, error) {
	return f(ctx, filters)
}

type Listener func(State)

type Page struct {
	name    domain.PageName
	fetcher Fetcher
	now     func() time.Time

	mu        sync.Mutex
	seq       uint64
	cancel    context.CancelFunc
	state     State
	changed   chan struct{}
	listeners map[int]Listener
	nextID    int

	wg sync.WaitGroup
}

func New(name domain.PageName, fetcher Fetcher) *Page {
	return &Page{
		name:      name,
		fetcher:   fetcher,
		now:       time.Now,
		state:     State{Page: name, Status: StatusIdle, Action: ActionNone},
		changed:   make(chan struct{}),
		listeners: make(map[int]Listener),
	}
}

func (p *Page) Name() domain.PageName {
	return p.name
}

// Load inicia uma nova busca, substituindo a que estiver em andamento
func (p *Page) Load(ctx context.Context, filters domain.Filters) uint64 {
	p.mu.Lock()

	if p.cancel != nil {
		p.cancel()
	}

	p.seq++
	id := p.seq

	fetchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.setLocked(State{
		Page:      p.name,
		Status:    StatusLoading,
		RequestID: id,
		Filters:   filters,
		Action:    ActionNone,
		UpdatedAt: p.now(),
	})

	p.wg.Add(1)
	p.mu.Unlock()

	go p.run(fetchCtx, cancel, id, filters)

	return id
}

func (p *Page) run(ctx context.Context, cancel context.CancelFunc, id uint64, filters domain.Filters) {
	defer p.wg.Done()
	defer cancel()

	result, err := p.fetcher.Fetch(ctx, filters)

	p.mu.Lock()
	defer p.mu.Unlock()

	if id != p.seq || p.state.Status != StatusLoading {
		logrus.WithFields(logrus.Fields{
			"page":       p.name,
			"request_id": id,
			"current":    p.seq,
		}).Debug("pages: descartando resposta obsoleta")
		return
	}

	p.cancel = nil

	if ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled) {
		// cancelado pelo contexto do chamador, sem estado terminal
		p.setLocked(State{
			Page:      p.name,
			Status:    StatusIdle,
			RequestID: id,
			Filters:   filters,
			Action:    ActionNone,
			UpdatedAt: p.now(),
		})
		return
	}

	status, pageErr, action := Classify(result, err)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"page":   p.name,
			"status": status,
			"action": action,
		}).Warn("pages: falha ao carregar página")
	}

	state := State{
		Page:      p.name,
		Status:    status,
		RequestID: id,
		Filters:   filters,
		Error:     pageErr,
		Action:    action,
		UpdatedAt: p.now(),
	}
	if status == StatusReady {
		state.Data = result
	}

	p.setLocked(state)
}

// Cancel cancela e invalida a busca em andamento, ao sair da página. A busca
// cancelada termina em idle com o próprio RequestID.
func (p *Page) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel == nil {
		return
	}

	p.cancel()
	p.cancel = nil

	p.setLocked(State{
		Page:      p.name,
		Status:    StatusIdle,
		RequestID: p.seq,
		Filters:   p.state.Filters,
		Action:    ActionNone,
		UpdatedAt: p.now(),
	})
}

// Discard descarta os dados carregados, ao encerrar a sessão. Buscas em
// andamento e estados de erro são mantidos, para que a falha de
// autenticação chegue à página.
func (p *Page) Discard() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil || p.state.Status == StatusError || p.state.Status == StatusIdle {
		return
	}

	p.setLocked(State{
		Page:      p.name,
		Status:    StatusIdle,
		RequestID: p.state.RequestID,
		Filters:   p.state.Filters,
		Action:    ActionNone,
		UpdatedAt: p.now(),
	})
}

// Await espera o estado terminal da busca id
func (p *Page) Await(ctx context.Context, id uint64) (State, error) {
	for {
		p.mu.Lock()
		st := p.state
		seq := p.seq
		changed := p.changed
		p.mu.Unlock()

		switch {
		case id == 0 || id > seq:
			return st, ErrUnknownRequest
		case st.RequestID > id:
			return st, ErrSuperseded
		case st.RequestID == id && st.Status.Terminal():
			return st, nil
		case st.RequestID == id && st.Status == StatusIdle:
			return st, ErrCanceled
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
}

func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Subscribe registra um listener para cada mudança de estado
func (p *Page) Subscribe(listener Listener) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.listeners[id] = listener

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// Wait bloqueia até que todas as buscas iniciadas terminem
func (p *Page) Wait() {
	p.wg.Wait()
}

func (p *Page) setLocked(st State) {
	p.state = st
	close(p.changed)
	p.changed = make(chan struct{})

	for _, listener := range p.listeners {
		listener(st)
	}
}
