package account

import (
	"strconv"

	"github.com/vfg2006/social-dashboard/internal/domain"
)

// Merge combina as contas padrão, as persistidas e as descobertas em uma
// lista sem facebookPageId repetido.
//
// A base é a lista persistida, ou a lista padrão quando nada foi persistido.
// Uma conta descoberta com a mesma página de uma existente só preenche os
// campos vazios, exceto o rótulo, que prefere o valor descoberto. Contas sem
// página são identificadas pelo ID. A ordem de inserção é preservada e as
// entradas não são alteradas.
func Merge(defaults, persisted, discovered []domain.Account) []domain.Account {
	base := persisted
	if len(base) == 0 {
		base = defaults
	}

	m := &merger{
		out:    make([]domain.Account, 0, len(base)+len(discovered)),
		byPage: make(map[string]int),
		byID:   make(map[string]int),
	}

	for _, acc := range base {
		m.add(acc, false)
	}
	for _, acc := range discovered {
		m.add(acc, true)
	}

	return m.out
}

type merger struct {
	out    []domain.Account
	byPage map[string]int
	byID   map[string]int
}

func (m *merger) add(acc domain.Account, discovered bool) {
	if acc.FacebookPageID != "" {
		if i, ok := m.byPage[acc.FacebookPageID]; ok {
			m.out[i] = mergeFields(m.out[i], acc, discovered)
			return
		}
	}

	if i, ok := m.byID[acc.ID]; ok && acc.ID != "" {
		existing := m.out[i]
		if acc.FacebookPageID == "" || existing.FacebookPageID == "" {
			m.out[i] = mergeFields(existing, acc, discovered)
			m.index(i)
			return
		}
		// mesmo ID para páginas diferentes
		acc.ID = m.uniqueID(acc.ID + "_" + acc.FacebookPageID)
	}

	m.out = append(m.out, acc.Clone())
	m.index(len(m.out) - 1)
}

// uniqueID devolve base, ou base com sufixo numérico, sem colidir com os IDs
// já registrados
func (m *merger) uniqueID(base string) string {
	id := base
	for n := 2; ; n++ {
		if _, ok := m.byID[id]; !ok {
			return id
		}
		id = base + "_" + strconv.Itoa(n)
	}
}

func (m *merger) index(i int) {
	acc := m.out[i]
	if acc.FacebookPageID != "" {
		if _, ok := m.byPage[acc.FacebookPageID]; !ok {
			m.byPage[acc.FacebookPageID] = i
		}
	}
	if acc.ID != "" {
		if _, ok := m.byID[acc.ID]; !ok {
			m.byID[acc.ID] = i
		}
	}
}

// mergeFields preenche os campos vazios de existing com os de incoming
func mergeFields(existing, incoming domain.Account, preferIncomingLabel bool) domain.Account {
	out := existing.Clone()

	if incoming.Label != "" && (preferIncomingLabel || out.Label == "") {
		out.Label = incoming.Label
	}
	if out.ID == "" {
		out.ID = incoming.ID
	}
	if out.FacebookPageID == "" {
		out.FacebookPageID = incoming.FacebookPageID
	}
	if out.InstagramUserID == "" {
		out.InstagramUserID = incoming.InstagramUserID
	}
	if out.AdAccountID == "" {
		out.AdAccountID = incoming.AdAccountID
	}
	if len(out.AdAccounts) == 0 && len(incoming.AdAccounts) > 0 {
		out.AdAccounts = incoming.Clone().AdAccounts
	}
	if out.Source == "" {
		out.Source = incoming.Source
	}

	return out
}
