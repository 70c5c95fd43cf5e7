package backend

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/social-dashboard/internal/domain"
)

// DiscoverAccounts lista as páginas acessíveis ao usuário e converte cada
// uma em uma conta de origem meta
func (c *Client) DiscoverAccounts(ctx context.Context) ([]domain.Account, error) {
	payload, err := c.do(ctx, request{method: http.MethodGet, path: "/api/accounts/discover"})
	if err != nil {
		return nil, err
	}

	var pages []domain.DiscoveredPage
	if err := payload.Decode(&pages); err != nil {
		// algumas versões respondem {"pages": [...]}
		var wrapped struct {
			Pages []domain.DiscoveredPage `json:"pages"`
		}
		if errWrapped := payload.Decode(&wrapped); errWrapped != nil {
			return nil, err
		}
		pages = wrapped.Pages
	}

	accounts := make([]domain.Account, 0, len(pages))
	for _, page := range pages {
		if page.ID == "" {
			logrus.WithField("name", page.Name).Warn("backend: página descoberta sem id, ignorando")
			continue
		}
		accounts = append(accounts, AccountFromPage(page))
	}

	logrus.WithField("total_accounts", len(accounts)).Debug("backend: contas descobertas")

	return accounts, nil
}

func AccountFromPage(page domain.DiscoveredPage) domain.Account {
	account := domain.Account{
		ID:              "fb_" + page.ID,
		Label:           strings.TrimSpace(page.Name),
		FacebookPageID:  page.ID,
		InstagramUserID: page.InstagramBusinessID,
		Source:          domain.AccountSourceMeta,
	}

	for _, ad := range page.AdAccounts {
		id := NormalizeAdAccountID(ad.ID)
		if id == "" {
			continue
		}
		account.AdAccounts = append(account.AdAccounts, domain.AdAccountRef{ID: id, Name: ad.Name})
	}

	if len(account.AdAccounts) > 0 {
		account.AdAccountID = account.AdAccounts[0].ID
	}

	return account
}

// NormalizeAdAccountID remove o prefixo act_ usado pela Graph API
func NormalizeAdAccountID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), "act_")
}
