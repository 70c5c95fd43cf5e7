package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/social-dashboard/internal/scheduler"
	"github.com/vfg2006/social-dashboard/pkg/apiErrors"
	"github.com/vfg2006/social-dashboard/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeAccountDiscovery = "account-discovery"
	CronJobTypeAll              = "all"
)

// CronJobServices contém os serviços de cron que podem ser executados manualmente
type CronJobServices struct {
	AccountDiscoverySyncService *scheduler.AccountDiscoverySyncService
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.ForContext(r.Context()).Info("INIT - RunCronJob")

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeAccountDiscovery, CronJobTypeAll:
			if services.AccountDiscoverySyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de descoberta de contas não disponível", nil)
				return
			}
			if err := services.AccountDiscoverySyncService.TriggerManualSync(); err != nil {
				writeError(w, r, err, "Erro ao iniciar descoberta de contas")
				return
			}
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: account-discovery, all", nil)
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.ForContext(r.Context()).Info("INIT - GetCronStatus")

		status := map[string]any{}
		if services.AccountDiscoverySyncService != nil {
			status[CronJobTypeAccountDiscovery] = services.AccountDiscoverySyncService.GetStatus()
		}

		writeJSON(w, http.StatusOK, status)
	}
}
