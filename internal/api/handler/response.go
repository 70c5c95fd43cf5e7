package handler

import (
	"context"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/social-dashboard/infrastructure/backend"
	"github.com/vfg2006/social-dashboard/internal/dashboard"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/scheduler"
	"github.com/vfg2006/social-dashboard/internal/usecases/account"
	"github.com/vfg2006/social-dashboard/pkg/apiErrors"
	"github.com/vfg2006/social-dashboard/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var backendCodes = map[backend.Kind]string{
	backend.KindTimeout:          apiErrors.ErrBackendTimeout,
	backend.KindNetworkFailure:   apiErrors.ErrBackendNetwork,
	backend.KindHTTPError:        apiErrors.ErrBackendHTTP,
	backend.KindPermissionDenied: apiErrors.ErrBackendPermission,
	backend.KindRateLimit:        apiErrors.ErrBackendRateLimit,
	backend.KindNoData:           apiErrors.ErrBackendNoData,
	backend.KindIntegrationError: apiErrors.ErrBackendIntegration,
	backend.KindUnauthorized:     apiErrors.ErrExpiredToken,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.L.WithError(err).Error("Erro ao codificar resposta")
	}
}

// writeError converte os erros dos serviços no erro padronizado da API
func writeError(w http.ResponseWriter, r *http.Request, err error, message string) {
	logger := log.ForContext(r.Context()).WithError(err)

	var accountErr *account.AccountError
	var backendErr *backend.Error

	switch {
	case errors.As(err, &accountErr):
		logger.Warn(message)
		var details any
		if accountErr.Details != "" {
			details = accountErr.Details
		}
		apiErrors.WriteError(w, accountErr.Code, message, details)
	case errors.As(err, &backendErr):
		code, ok := backendCodes[backendErr.Kind]
		if !ok {
			code = apiErrors.ErrExternalService
		}
		logger.Warn(message)
		apiErrors.WriteError(w, code, message, map[string]any{"kind": backendErr.Kind, "status": backendErr.Status})
	case errors.Is(err, backend.ErrMissingToken):
		logger.Warn(message)
		apiErrors.WriteError(w, apiErrors.ErrInvalidCredentials, message, nil)
	case errors.Is(err, dashboard.ErrUnknownPage):
		apiErrors.WriteError(w, apiErrors.ErrPageNotFound, "Página desconhecida", nil)
	case errors.Is(err, dashboard.ErrInvalidTheme):
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Tema inválido, use light ou dark", nil)
	case errors.Is(err, domain.ErrInvalidDateRange):
		apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, "A data inicial deve ser anterior à data final", nil)
	case errors.Is(err, scheduler.ErrSyncAlreadyRunning):
		apiErrors.WriteError(w, apiErrors.ErrJobAlreadyRunning, "Descoberta de contas já em andamento", nil)
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn(message)
		apiErrors.WriteError(w, apiErrors.ErrBackendTimeout, message, nil)
	default:
		logger.Error(message)
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, message, nil)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
		return false
	}
	return true
}
