package pages

import (
	"errors"

	"github.com/vfg2006/social-dashboard/infrastructure/backend"
)

// ErrNotConnected indica que a conta não tem o recurso exigido pela página
var ErrNotConnected = errors.New("account not connected to this network")

const (
	KindNotConnected = "not_connected"
	KindInternal     = "internal"
)

var kindMessages = map[backend.Kind]string{
	backend.KindTimeout:          "O servidor demorou demais para responder. Tente novamente.",
	backend.KindNetworkFailure:   "Não foi possível conectar ao servidor. Verifique sua conexão.",
	backend.KindHTTPError:        "O servidor retornou um erro inesperado.",
	backend.KindPermissionDenied: "Permissão insuficiente para acessar os dados desta conta. Reconecte a conta.",
	backend.KindRateLimit:        "Limite de requisições atingido. Aguarde alguns instantes e tente novamente.",
	backend.KindIntegrationError: "A integração com a Meta precisa ser reconectada.",
	backend.KindUnauthorized:     "Sua sessão expirou. Faça login novamente.",
}

// Classify converte o resultado de uma busca no estado da página
func Classify(result Result, err error) (Status, *PageError, RecoveryAction) {
	if err == nil {
		if result == nil || result.IsEmpty() {
			return StatusEmpty, nil, ActionNone
		}
		return StatusReady, nil, ActionNone
	}

	if errors.Is(err, ErrNotConnected) {
		return StatusError, &PageError{Kind: KindNotConnected, Message: "Conecte esta rede à conta selecionada."}, ActionReconnect
	}

	kind := backend.KindOf(err)

	switch kind {
	case backend.KindNoData:
		return StatusEmpty, nil, ActionNone
	case backend.KindPermissionDenied, backend.KindIntegrationError:
		return StatusError, pageError(kind, err), ActionReconnect
	case backend.KindUnauthorized:
		return StatusError, pageError(kind, err), ActionLogin
	case backend.KindRateLimit, backend.KindTimeout, backend.KindNetworkFailure, backend.KindHTTPError:
		return StatusError, pageError(kind, err), ActionRetry
	}

	return StatusError, &PageError{Kind: KindInternal, Message: err.Error()}, ActionRetry
}

func pageError(kind backend.Kind, err error) *PageError {
	message, ok := kindMessages[kind]
	if !ok {
		message = err.Error()
	}

	var be *backend.Error
	if kind == backend.KindHTTPError && errors.As(err, &be) && be.Message != "" {
		message = be.Message
	}

	return &PageError{Kind: string(kind), Message: message}
}
