package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/vfg2006/social-dashboard/internal/dashboard"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/pages"
	"github.com/vfg2006/social-dashboard/internal/report"
	"github.com/vfg2006/social-dashboard/pkg/apiErrors"
	"github.com/vfg2006/social-dashboard/pkg/log"
)

// ExportReportCSV gera o CSV a partir das mesmas linhas exibidas na página
// de relatórios
func ExportReportCSV(app *dashboard.App, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applyQuery(app.Store(), r.URL.Query())

		id, err := app.Mount(r.Context(), domain.PageReports)
		if err != nil {
			writeError(w, r, err, "Erro ao carregar relatório")
			return
		}

		page, _ := app.Page(domain.PageReports)
		state := awaitCurrent(r.Context(), page, id)

		switch state.Status {
		case pages.StatusReady:
		case pages.StatusEmpty:
			apiErrors.WriteError(w, apiErrors.ErrBackendNoData, "Nenhum dado para o período selecionado", nil)
			return
		case pages.StatusError:
			apiErrors.WriteError(w, apiErrors.ErrExternalService, state.Error.Message, map[string]any{
				"kind":   state.Error.Kind,
				"action": state.Action,
			})
			return
		default:
			apiErrors.WriteError(w, apiErrors.ErrPageNotReady, "O relatório ainda está carregando", map[string]any{"status": state.Status})
			return
		}

		result, ok := state.Data.(*pages.ReportResult)
		if !ok {
			writeError(w, r, fmt.Errorf("unexpected report result %T", state.Data), "Erro ao gerar relatório")
			return
		}

		filename := report.FileName(result.Account.Label, result.Range, loc)

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		if err := report.WriteCSV(w, result.Rows); err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao escrever CSV do relatório")
		}
	}
}
