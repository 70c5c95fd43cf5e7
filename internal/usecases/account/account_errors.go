package account

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de contas
var (
	// Erros de validação
	ErrAccountIDRequired = errors.New("account ID is required")
	ErrAccountNotFound   = errors.New("account not found")
	ErrLabelRequired     = errors.New("account label is required")
	ErrMissingReference  = errors.New("account needs a facebook page, instagram user or ad account")
	ErrNoAccounts        = errors.New("no accounts available")
	ErrInvalidDefault    = errors.New("invalid default account")

	// Erros de serviços externos
	ErrDiscovery = errors.New("error discovering accounts")

	// Erros de banco de dados
	ErrFetchAccounts = errors.New("error fetching accounts from database")
	ErrSaveAccounts  = errors.New("error saving accounts")

	ErrGenerateID = errors.New("error generating account ID")
)

// AccountError é um erro com contexto adicional para contas
type AccountError struct {
	Err       error  // Erro base
	Code      string // Código de erro para API
	AccountID string // ID da conta envolvida (quando aplicável)
	Details   string // Detalhes adicionais
}

// Error implementa a interface error
func (e *AccountError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *AccountError) Unwrap() error {
	return e.Err
}

func NewAccountError(err error, code string, details string) *AccountError {
	return &AccountError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func NewAccountErrorWithID(err error, code string, accountID string, details string) *AccountError {
	return &AccountError{
		Err:       err,
		Code:      code,
		AccountID: accountID,
		Details:   details,
	}
}
