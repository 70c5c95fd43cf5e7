package account

import (
	"fmt"
	"strings"

	"github.com/vfg2006/social-dashboard/internal/domain"
)

// ParseDefaults lê as contas padrão no formato
// "id|label|facebookPageId|instagramUserId|adAccountId"
func ParseDefaults(entries []string) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0, len(entries))

	for _, entry := range entries {
		parts := strings.Split(entry, "|")
		for len(parts) < 5 {
			parts = append(parts, "")
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		if parts[0] == "" || parts[1] == "" || len(parts) > 5 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDefault, entry)
		}

		acc := domain.Account{
			ID:              parts[0],
			Label:           parts[1],
			FacebookPageID:  parts[2],
			InstagramUserID: parts[3],
			AdAccountID:     strings.TrimPrefix(parts[4], "act_"),
			Source:          domain.AccountSourceManual,
		}
		if acc.AdAccountID != "" {
			acc.AdAccounts = []domain.AdAccountRef{{ID: acc.AdAccountID, Name: acc.Label}}
		}

		accounts = append(accounts, acc)
	}

	return accounts, nil
}
