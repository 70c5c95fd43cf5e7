package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/social-dashboard/infrastructure/repository"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/pkg/apiErrors"
	"github.com/vfg2006/social-dashboard/pkg/utils"
)

const DefaultDiscoveryTimeout = 15 * time.Second

//go:generate mockgen -source=service.go -destination=mocks/discoverer_mock.go -package=mocks
type Discoverer interface {
	DiscoverAccounts(ctx context.Context) ([]domain.Account, error)
}

// DiscoveryResult é o resultado da descoberta. Falhas da descoberta não
// viram erro: a lista anterior é mantida e Warning é preenchido.
type DiscoveryResult struct {
	Accounts   []domain.Account         `json:"accounts"`
	Discovered int                      `json:"discovered"`
	Warning    *domain.DiscoveryWarning `json:"warning,omitempty"`
	// Err guarda a causa do aviso, envolvida por ErrDiscovery
	Err        error                    `json:"-"`
}

type Registry struct {
	repo       repository.AccountRepository
	discoverer Discoverer
	defaults   []domain.Account
	timeout    time.Duration
	now        func() time.Time

	mu        sync.Mutex
	warningMu sync.RWMutex
	warning   *domain.DiscoveryWarning
}

func NewRegistry(
	repo repository.AccountRepository,
	discoverer Discoverer,
	defaults []domain.Account,
	timeout time.Duration,
) *Registry {
	if timeout <= 0 {
		timeout = DefaultDiscoveryTimeout
	}

	return &Registry{
		repo:       repo,
		discoverer: discoverer,
		defaults:   defaults,
		timeout:    timeout,
		now:        time.Now,
	}
}

// List retorna as contas atuais, ou as contas padrão quando não há nenhuma
func (r *Registry) List(ctx context.Context) ([]domain.Account, error) {
	_, accounts, err := r.load(ctx)
	return accounts, err
}

func (r *Registry) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	if accountID == "" {
		return nil, NewAccountError(ErrAccountIDRequired, apiErrors.ErrMissingRequiredData, "")
	}

	accounts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	if acc, ok := find(accounts, accountID); ok {
		return &acc, nil
	}

	return nil, NewAccountErrorWithID(ErrAccountNotFound, apiErrors.ErrAccountNotFound, accountID, "")
}

// Resolve retorna a conta selecionada, ou a primeira conta quando o ID é
// vazio ou desconhecido
func (r *Registry) Resolve(ctx context.Context, accountID string) (*domain.Account, error) {
	accounts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(accounts) == 0 {
		return nil, NewAccountError(ErrNoAccounts, apiErrors.ErrAccountNotFound, "Nenhuma conta cadastrada")
	}

	if acc, ok := find(accounts, accountID); ok {
		return &acc, nil
	}

	if accountID != "" {
		logrus.WithField("account_id", accountID).Debug("account: conta não encontrada, usando a primeira")
	}

	first := accounts[0].Clone()
	return &first, nil
}

// Add cadastra uma conta manual. Se a página já existir, os dados são
// combinados na conta existente.
func (r *Registry) Add(ctx context.Context, req domain.AddAccountRequest) (*domain.Account, error) {
	req.Label = strings.TrimSpace(req.Label)
	req.FacebookPageID = strings.TrimSpace(req.FacebookPageID)
	req.InstagramUserID = strings.TrimSpace(req.InstagramUserID)
	req.AdAccountID = strings.TrimPrefix(strings.TrimSpace(req.AdAccountID), "act_")

	if req.Label == "" {
		return nil, NewAccountError(ErrLabelRequired, apiErrors.ErrMissingRequiredData, "")
	}
	if req.FacebookPageID == "" && req.InstagramUserID == "" && req.AdAccountID == "" && len(req.AdAccounts) == 0 {
		return nil, NewAccountError(ErrMissingReference, apiErrors.ErrMissingRequiredData, "")
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, NewAccountError(ErrGenerateID, apiErrors.ErrInternalServer, err.Error())
	}

	acc := domain.Account{
		ID:              id,
		Label:           req.Label,
		FacebookPageID:  req.FacebookPageID,
		InstagramUserID: req.InstagramUserID,
		AdAccountID:     req.AdAccountID,
		Source:          domain.AccountSourceManual,
	}
	for _, ref := range req.AdAccounts {
		ref.ID = strings.TrimPrefix(strings.TrimSpace(ref.ID), "act_")
		if ref.ID != "" {
			acc.AdAccounts = append(acc.AdAccounts, ref)
		}
	}
	if acc.AdAccountID == "" && len(acc.AdAccounts) > 0 {
		acc.AdAccountID = acc.AdAccounts[0].ID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, current, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	merged := Merge(nil, current, []domain.Account{acc})
	if err := r.save(ctx, merged); err != nil {
		return nil, err
	}

	saved := acc
	for _, candidate := range merged {
		if candidate.ID == acc.ID || (acc.FacebookPageID != "" && candidate.FacebookPageID == acc.FacebookPageID) {
			saved = candidate
			break
		}
	}

	logrus.WithFields(logrus.Fields{
		"account_id": saved.ID,
		"label":      saved.Label,
	}).Info("account: conta adicionada")

	return &saved, nil
}

// Remove exclui a conta por ação explícita do usuário
func (r *Registry) Remove(ctx context.Context, accountID string) error {
	if accountID == "" {
		return NewAccountError(ErrAccountIDRequired, apiErrors.ErrMissingRequiredData, "")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	persisted, current, err := r.load(ctx)
	if err != nil {
		return err
	}

	if _, ok := find(current, accountID); !ok {
		return NewAccountErrorWithID(ErrAccountNotFound, apiErrors.ErrAccountNotFound, accountID, "")
	}

	if _, ok := find(persisted, accountID); ok && len(persisted) == len(current) {
		if err := r.repo.DeleteAccount(ctx, accountID); err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return NewAccountErrorWithID(ErrAccountNotFound, apiErrors.ErrAccountNotFound, accountID, "")
			}
			return NewAccountErrorWithID(ErrSaveAccounts, apiErrors.ErrDatabaseOperation, accountID, err.Error())
		}
	} else {
		// a lista atual veio das contas padrão ou tinha duplicatas
		remaining := make([]domain.Account, 0, len(current))
		for _, acc := range current {
			if acc.ID != accountID {
				remaining = append(remaining, acc)
			}
		}
		if err := r.save(ctx, remaining); err != nil {
			return err
		}
	}

	logrus.WithField("account_id", accountID).Info("account: conta removida")

	return nil
}

// Discover busca as contas no backend e combina com a lista atual.
// Falhas ou timeout da descoberta mantêm a lista anterior e geram apenas
// um aviso; somente erros de persistência são retornados.
func (r *Registry) Discover(ctx context.Context) (*DiscoveryResult, error) {
	dctx, cancel := context.WithTimeout(ctx, r.timeout)
	discovered, discoverErr := r.discoverer.DiscoverAccounts(dctx)
	cancel()

	if discoverErr != nil && errors.Is(ctx.Err(), context.Canceled) {
		return nil, ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	persisted, current, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	if discoverErr != nil {
		discoverErr = fmt.Errorf("%w: %w", ErrDiscovery, discoverErr)
		warning := &domain.DiscoveryWarning{
			Message:    "Não foi possível atualizar as contas conectadas. Exibindo a última lista conhecida.",
			OccurredAt: r.now().Unix(),
		}
		r.setWarning(warning)

		logrus.WithError(discoverErr).Warn("account: descoberta de contas falhou, mantendo lista anterior")

		return &DiscoveryResult{Accounts: current, Warning: warning, Err: discoverErr}, nil
	}

	merged := Merge(r.defaults, persisted, discovered)
	if err := r.save(ctx, merged); err != nil {
		return nil, err
	}

	r.setWarning(nil)

	logrus.WithFields(logrus.Fields{
		"discovered":     len(discovered),
		"total_accounts": len(merged),
	}).Info("account: descoberta de contas concluída")

	return &DiscoveryResult{Accounts: merged, Discovered: len(discovered)}, nil
}

// Warning retorna o aviso da última descoberta que falhou, se houver
func (r *Registry) Warning() *domain.DiscoveryWarning {
	r.warningMu.RLock()
	defer r.warningMu.RUnlock()

	if r.warning == nil {
		return nil
	}
	w := *r.warning
	return &w
}

func (r *Registry) setWarning(w *domain.DiscoveryWarning) {
	r.warningMu.Lock()
	defer r.warningMu.Unlock()
	r.warning = w
}

// load retorna a lista persistida e a lista efetiva
func (r *Registry) load(ctx context.Context) ([]domain.Account, []domain.Account, error) {
	persisted, err := r.repo.ListAccounts(ctx)
	if err != nil {
		logrus.WithError(err).Error("account: erro ao listar contas")
		return nil, nil, NewAccountError(ErrFetchAccounts, apiErrors.ErrDatabaseOperation, "Falha ao listar contas no banco de dados")
	}

	return persisted, Merge(r.defaults, persisted, nil), nil
}

func (r *Registry) save(ctx context.Context, accounts []domain.Account) error {
	if err := r.repo.ReplaceAccounts(ctx, accounts); err != nil {
		logrus.WithError(err).Error("account: erro ao salvar contas")
		return NewAccountError(ErrSaveAccounts, apiErrors.ErrDatabaseOperation, "Falha ao salvar contas no banco de dados")
	}
	return nil
}

func find(accounts []domain.Account, accountID string) (domain.Account, bool) {
	if accountID == "" {
		return domain.Account{}, false
	}
	for _, acc := range accounts {
		if acc.ID == accountID {
			return acc.Clone(), true
		}
	}
	return domain.Account{}, false
}
