package repository

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/social-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/social-dashboard/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const accountsTable = "dashboard_accounts"

var ErrAccountNotFound = errors.New("account not found")

var accountColumns = []string{
	"id", "position", "label", "facebook_page_id", "instagram_user_id",
	"ad_account_id", "ad_accounts", "source", "updated_at",
}

//go:generate mockgen -source=account.go -destination=mocks/account_repository_mock.go -package=mocks
type AccountRepository interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ReplaceAccounts(ctx context.Context, accounts []domain.Account) error
	DeleteAccount(ctx context.Context, accountID string) error
	EnsureSchema(ctx context.Context) error
}

type accountRepository struct {
	conn postgres.Conn
}

func NewAccountRepository(conn postgres.Conn) AccountRepository {
	return &accountRepository{
		conn: conn,
	}
}

func (r *accountRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS dashboard_accounts (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			label TEXT NOT NULL,
			facebook_page_id TEXT,
			instagram_user_id TEXT,
			ad_account_id TEXT,
			ad_accounts JSONB NOT NULL DEFAULT '[]',
			source TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return wrapPQ(err, "erro ao criar tabela de contas")
}

func (r *accountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accountsSQL, args, err := squirrel.
		Select(accountColumns[:len(accountColumns)-1]...).
		From(accountsTable).
		OrderBy("position ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.Query(ctx, accountsSQL, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.Account{}, nil
		}
		return nil, wrapPQ(err, "erro ao executar a query")
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		acc, err := deserializeAccount(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao deserializar a conta")
		}
		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro ao iterar sobre os resultados")
	}

	return accounts, nil
}

// ReplaceAccounts grava a lista inteira, preservando a ordem, em uma transação
func (r *accountRepository) ReplaceAccounts(ctx context.Context, accounts []domain.Account) error {
	insertSQL, insertArgs, err := buildInsert(accounts, time.Now())
	if err != nil {
		return err
	}

	return r.conn.RunInTransaction(ctx, func(q postgres.Queryer) error {
		if _, err := q.Exec(ctx, "DELETE FROM "+accountsTable); err != nil {
			return wrapPQ(err, "erro ao limpar contas")
		}

		if insertSQL == "" {
			return nil
		}

		if _, err := q.Exec(ctx, insertSQL, insertArgs...); err != nil {
			return wrapPQ(err, "erro ao inserir contas")
		}

		return nil
	})
}

func (r *accountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	deleteSQL, args, err := squirrel.
		Delete(accountsTable).
		Where(squirrel.Eq{"id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir a query")
	}

	result, err := r.conn.Exec(ctx, deleteSQL, args...)
	if err != nil {
		return wrapPQ(err, "erro ao remover conta")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "error getting rows affected")
	}

	if rowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// buildInsert monta o insert em lote; retorna SQL vazio para lista vazia
func buildInsert(accounts []domain.Account, now time.Time) (string, []interface{}, error) {
	if len(accounts) == 0 {
		return "", nil, nil
	}

	query := squirrel.StatementBuilder.
		Insert(accountsTable).
		Columns(accountColumns...).
		PlaceholderFormat(squirrel.Dollar)

	for i, acc := range accounts {
		adAccounts := acc.AdAccounts
		if adAccounts == nil {
			adAccounts = []domain.AdAccountRef{}
		}

		refs, err := json.Marshal(adAccounts)
		if err != nil {
			return "", nil, errors.Wrapf(err, "erro ao serializar contas de anúncio de %s", acc.ID)
		}

		query = query.Values(
			acc.ID,
			i,
			acc.Label,
			nullString(acc.FacebookPageID),
			nullString(acc.InstagramUserID),
			nullString(acc.AdAccountID),
			string(refs),
			string(acc.Source),
			now,
		)
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to build query")
	}

	return sqlQuery, args, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func deserializeAccount(row scanner) (domain.Account, error) {
	var (
		acc        domain.Account
		position   int
		pageID     sql.NullString
		igID       sql.NullString
		adID       sql.NullString
		adAccounts []byte
		source     string
	)

	if err := row.Scan(&acc.ID, &position, &acc.Label, &pageID, &igID, &adID, &adAccounts, &source); err != nil {
		return acc, err
	}

	acc.FacebookPageID = pageID.String
	acc.InstagramUserID = igID.String
	acc.AdAccountID = adID.String
	acc.Source = domain.AccountSource(source)

	if len(adAccounts) > 0 {
		if err := json.Unmarshal(adAccounts, &acc.AdAccounts); err != nil {
			return acc, err
		}
		if len(acc.AdAccounts) == 0 {
			acc.AdAccounts = nil
		}
	}

	return acc, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func wrapPQ(err error, message string) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return errors.Wrapf(err, "%s (code: %s)", message, pqErr.Code)
	}

	return errors.Wrap(err, message)
}

// memoryAccountRepository é usado quando o banco está desabilitado
type memoryAccountRepository struct {
	mu       sync.RWMutex
	accounts []domain.Account
}

func NewMemoryAccountRepository(initial ...domain.Account) AccountRepository {
	return &memoryAccountRepository{accounts: cloneAccounts(initial)}
}

func (m *memoryAccountRepository) EnsureSchema(context.Context) error {
	return nil
}

func (m *memoryAccountRepository) ListAccounts(context.Context) ([]domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneAccounts(m.accounts), nil
}

func (m *memoryAccountRepository) ReplaceAccounts(_ context.Context, accounts []domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = cloneAccounts(accounts)
	return nil
}

func (m *memoryAccountRepository) DeleteAccount(_ context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, acc := range m.accounts {
		if acc.ID == accountID {
			m.accounts = append(m.accounts[:i:i], m.accounts[i+1:]...)
			return nil
		}
	}

	return ErrAccountNotFound
}

func cloneAccounts(in []domain.Account) []domain.Account {
	out := make([]domain.Account, len(in))
	for i, acc := range in {
		out[i] = acc.Clone()
	}
	return out
}
