package handler

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/querystate"
	"github.com/vfg2006/social-dashboard/internal/usecases/account"
	"github.com/vfg2006/social-dashboard/pkg/log"
)

type AccountService interface {
	List(ctx context.Context) ([]domain.Account, error)
	Add(ctx context.Context, req domain.AddAccountRequest) (*domain.Account, error)
	Remove(ctx context.Context, accountID string) error
	Warning() *domain.DiscoveryWarning
}

type AccountDiscoverer interface {
	Discover(ctx context.Context) (*account.DiscoveryResult, error)
}

type AccountListResponse struct {
	Accounts []domain.Account         `json:"accounts"`
	Selected string                   `json:"selected,omitempty"`
	Warning  *domain.DiscoveryWarning `json:"warning,omitempty"`
}

func ListAccounts(service AccountService, store *querystate.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := service.List(r.Context())
		if err != nil {
			writeError(w, r, err, "Erro ao listar contas")
			return
		}

		writeJSON(w, http.StatusOK, AccountListResponse{
			Accounts: accounts,
			Selected: store.AccountID(),
			Warning:  service.Warning(),
		})
	}
}

func AddAccount(service AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.AddAccountRequest
		if !decodeBody(w, r, &req) {
			return
		}

		acc, err := service.Add(r.Context(), req)
		if err != nil {
			writeError(w, r, err, "Erro ao adicionar conta")
			return
		}

		writeJSON(w, http.StatusCreated, acc)
	}
}

// RemoveAccount exclui a conta; se ela estava selecionada, a seleção volta
// para a primeira conta da lista
func RemoveAccount(service AccountService, store *querystate.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		if err := service.Remove(r.Context(), accountID); err != nil {
			writeError(w, r, err, "Erro ao remover conta")
			return
		}

		if store.AccountID() == accountID {
			store.SetAccount("")
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DiscoverAccounts(discoverer AccountDiscoverer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.ForContext(r.Context()).Info("INIT - DiscoverAccounts")

		result, err := discoverer.Discover(r.Context())
		if err != nil {
			writeError(w, r, err, "Erro ao sincronizar contas")
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
