package domain

type AccountSource string

const (
	AccountSourceManual AccountSource = "manual"
	AccountSourceMeta   AccountSource = "meta"
)

type AdAccountRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Account agrupa uma página do Facebook, um usuário business do Instagram
// e/ou contas de anúncio sob um mesmo rótulo
type Account struct {
	ID              string         `json:"id"`
	Label           string         `json:"label"`
	FacebookPageID  string         `json:"facebookPageId,omitempty"`
	InstagramUserID string         `json:"instagramUserId,omitempty"`
	AdAccountID     string         `json:"adAccountId,omitempty"`
	AdAccounts      []AdAccountRef `json:"adAccounts,omitempty"`
	Source          AccountSource  `json:"source"`
}

// Clone retorna uma cópia sem compartilhar o slice de contas de anúncio
func (a Account) Clone() Account {
	if a.AdAccounts != nil {
		refs := make([]AdAccountRef, len(a.AdAccounts))
		copy(refs, a.AdAccounts)
		a.AdAccounts = refs
	}
	return a
}

// PrimaryAdAccountID retorna a conta de anúncio selecionada ou a primeira vinculada
func (a Account) PrimaryAdAccountID() string {
	if a.AdAccountID != "" {
		return a.AdAccountID
	}
	if len(a.AdAccounts) > 0 {
		return a.AdAccounts[0].ID
	}
	return ""
}

type AddAccountRequest struct {
	Label           string         `json:"label"`
	FacebookPageID  string         `json:"facebookPageId,omitempty"`
	InstagramUserID string         `json:"instagramUserId,omitempty"`
	AdAccountID     string         `json:"adAccountId,omitempty"`
	AdAccounts      []AdAccountRef `json:"adAccounts,omitempty"`
}

// DiscoveryWarning é o estado de aviso não bloqueante da descoberta de contas
type DiscoveryWarning struct {
	Message    string `json:"message"`
	OccurredAt int64  `json:"occurred_at"`
}
