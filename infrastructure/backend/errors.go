package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind classifica as falhas de chamadas ao backend
type Kind string

const (
	KindTimeout          Kind = "timeout"
	KindNetworkFailure   Kind = "network_failure"
	KindHTTPError        Kind = "http_error"
	KindPermissionDenied Kind = "permission_denied"
	KindRateLimit        Kind = "rate_limit"
	KindNoData           Kind = "no_data"
	KindIntegrationError Kind = "integration_error"
	KindUnauthorized     Kind = "unauthorized"
)

// Error é o erro normalizado na fronteira de rede
type Error struct {
	Kind     Kind
	Status   int
	Code     string
	Message  string
	Endpoint string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status > 0 {
		return fmt.Sprintf("backend: %s %s (status %d): %s", e.Kind, e.Endpoint, e.Status, msg)
	}
	return fmt.Sprintf("backend: %s %s: %s", e.Kind, e.Endpoint, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf retorna a classificação do erro, ou "" quando não é um erro do backend
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// IsKind verifica se err é um erro do backend com a classificação informada
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// APIError é o corpo de erro retornado pelo backend, tanto no envelope
// quanto no formato da Graph API repassado pelo backend
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Type      string `json:"type,omitempty"`
	GraphCode int    `json:"graph_code,omitempty"`
	Subcode   int    `json:"error_subcode,omitempty"`
}

// IsTokenExpired verifica se o erro é de token da Meta expirado
func (e *APIError) IsTokenExpired() bool {
	// O código 190 representa "token expirado" nas respostas da API do Meta
	// Possíveis subcódigos relacionados a problemas de token: 460, 463, 467
	return e.GraphCode == 190 ||
		(e.Type == "OAuthException" && (e.Subcode == 460 || e.Subcode == 463 || e.Subcode == 467))
}

func (e *APIError) isRateLimited() bool {
	switch e.GraphCode {
	case 4, 17, 32, 613, 80004:
		return true
	}
	return false
}

func (e *APIError) isPermissionDenied() bool {
	return e.GraphCode == 10 || (e.GraphCode >= 200 && e.GraphCode <= 299)
}

// classify escolhe a classificação a partir do status HTTP e do corpo de erro
func classify(status int, apiErr *APIError) Kind {
	if apiErr != nil {
		if kind, ok := classifyAPIError(apiErr); ok {
			return kind
		}
	}

	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindPermissionDenied
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status == http.StatusNotFound || status == http.StatusNoContent:
		return KindNoData
	case status == http.StatusFailedDependency || status == http.StatusBadGateway:
		return KindIntegrationError
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return KindTimeout
	}

	return KindHTTPError
}

func classifyAPIError(e *APIError) (Kind, bool) {
	switch {
	case e.IsTokenExpired():
		return KindIntegrationError, true
	case e.isRateLimited():
		return KindRateLimit, true
	case e.isPermissionDenied():
		return KindPermissionDenied, true
	}

	code := strings.ToUpper(e.Code)
	switch {
	case code == "":
		return "", false
	case code == "UNAUTHORIZED" || code == "INVALID_TOKEN" || code == "SESSION_EXPIRED":
		return KindUnauthorized, true
	case strings.Contains(code, "PERMISSION") || strings.Contains(code, "FORBIDDEN"):
		return KindPermissionDenied, true
	case strings.Contains(code, "RATE_LIMIT") || strings.Contains(code, "TOO_MANY"):
		return KindRateLimit, true
	case strings.Contains(code, "NO_DATA") || code == "NOT_FOUND" || code == "EMPTY":
		return KindNoData, true
	case strings.Contains(code, "INTEGRATION") || strings.Contains(code, "TOKEN_EXPIRED") || strings.Contains(code, "META"):
		return KindIntegrationError, true
	}

	return "", false
}

// transportError normaliza falhas antes de existir uma resposta HTTP.
// Cancelamentos do chamador são devolvidos sem classificação.
func transportError(endpoint string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("backend: %s: %w", endpoint, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Endpoint: endpoint, Message: "tempo limite da requisição excedido", Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Endpoint: endpoint, Message: "tempo limite da requisição excedido", Err: err}
	}

	return &Error{Kind: KindNetworkFailure, Endpoint: endpoint, Message: "falha de comunicação com o servidor", Err: err}
}
