package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/social-dashboard/internal/domain"
)

func TestMemoryAccountRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository(domain.Account{ID: "a", Label: "A"})

	accounts, err := repo.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	// alterar o retorno não altera o repositório
	accounts[0].Label = "alterado"
	again, _ := repo.ListAccounts(ctx)
	assert.Equal(t, "A", again[0].Label)

	require.NoError(t, repo.ReplaceAccounts(ctx, []domain.Account{
		{ID: "b", Label: "B", AdAccounts: []domain.AdAccountRef{{ID: "1"}}},
		{ID: "c", Label: "C"},
	}))

	require.NoError(t, repo.DeleteAccount(ctx, "b"))
	assert.ErrorIs(t, repo.DeleteAccount(ctx, "b"), ErrAccountNotFound)

	accounts, _ = repo.ListAccounts(ctx)
	require.Len(t, accounts, 1)
	assert.Equal(t, "c", accounts[0].ID)
}

func TestBuildInsert(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Lista vazia não gera insert", func(t *testing.T) {
		sqlQuery, args, err := buildInsert(nil, now)
		require.NoError(t, err)
		assert.Empty(t, sqlQuery)
		assert.Nil(t, args)
	})

	t.Run("Preserva a ordem e serializa contas de anúncio", func(t *testing.T) {
		sqlQuery, args, err := buildInsert([]domain.Account{
			{ID: "x", Label: "X", FacebookPageID: "123", Source: domain.AccountSourceMeta, AdAccounts: []domain.AdAccountRef{{ID: "9", Name: "Ads"}}},
			{ID: "y", Label: "Y", Source: domain.AccountSourceManual},
		}, now)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(sqlQuery, "INSERT INTO dashboard_accounts"))
		assert.Contains(t, sqlQuery, "$18")
		require.Len(t, args, 18)

		assert.Equal(t, "x", args[0])
		assert.Equal(t, 0, args[1])
		assert.JSONEq(t, `[{"id":"9","name":"Ads"}]`, args[6].(string))
		assert.Equal(t, 1, args[10])
		assert.Equal(t, `[]`, args[15])
		assert.Equal(t, "manual", args[16])
	})
}

type fakeRow struct {
	values []interface{}
}

func (f fakeRow) Scan(dest ...interface{}) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = f.values[i].(string)
		case *int:
			*p = f.values[i].(int)
		case *[]byte:
			*p = []byte(f.values[i].(string))
		default:
			if ns, ok := d.(interface{ Scan(interface{}) error }); ok {
				if err := ns.Scan(f.values[i]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func TestDeserializeAccount(t *testing.T) {
	acc, err := deserializeAccount(fakeRow{values: []interface{}{
		"x", 0, "X", "123", nil, "9", `[{"id":"9","name":"Ads"}]`, "meta",
	}})
	require.NoError(t, err)

	assert.Equal(t, "123", acc.FacebookPageID)
	assert.Empty(t, acc.InstagramUserID)
	assert.Equal(t, domain.AccountSourceMeta, acc.Source)
	require.Len(t, acc.AdAccounts, 1)
	assert.Equal(t, "Ads", acc.AdAccounts[0].Name)

	empty, err := deserializeAccount(fakeRow{values: []interface{}{
		"y", 1, "Y", nil, nil, nil, `[]`, "manual",
	}})
	require.NoError(t, err)
	assert.Nil(t, empty.AdAccounts)
}
