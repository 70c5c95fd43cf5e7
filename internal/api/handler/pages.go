package handler

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/social-dashboard/internal/charts"
	"github.com/vfg2006/social-dashboard/internal/dashboard"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/pages"
	"github.com/vfg2006/social-dashboard/pkg/apiErrors"
	"github.com/vfg2006/social-dashboard/pkg/middleware"
)

// maxSupersededWaits limita quantas vezes a requisição segue uma busca mais
// nova antes de responder com o estado atual
const maxSupersededWaits = 3

type PageResponse struct {
	pages.State
	Charts  []string                 `json:"charts,omitempty"`
	Warning *domain.DiscoveryWarning `json:"warning,omitempty"`
}

// GetPage aplica os filtros da URL, monta a página e espera o estado final
// da busca. Com wait=false responde imediatamente com o estado atual.
func GetPage(app *dashboard.App, service AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := pageParam(w, r)
		if !ok {
			return
		}

		applyQuery(app.Store(), r.URL.Query())

		id, err := app.Mount(r.Context(), name)
		if err != nil {
			writeError(w, r, err, "Erro ao carregar página")
			return
		}

		page, _ := app.Page(name)

		state := page.State()
		if r.URL.Query().Get("wait") != "false" {
			state = awaitCurrent(r.Context(), page, id)
		}

		writeJSON(w, http.StatusOK, pageResponse(state, service.Warning()))
	}
}

// ReloadPage inicia uma nova busca, usada pela ação de tentar novamente
func ReloadPage(app *dashboard.App, service AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := pageParam(w, r)
		if !ok {
			return
		}

		id, err := app.Reload(r.Context(), name)
		if err != nil {
			writeError(w, r, err, "Erro ao recarregar página")
			return
		}

		page, _ := app.Page(name)
		writeJSON(w, http.StatusOK, pageResponse(awaitCurrent(r.Context(), page, id), service.Warning()))
	}
}

// LeavePage cancela a busca em andamento ao sair da página
func LeavePage(app *dashboard.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := pageParam(w, r)
		if !ok {
			return
		}

		if err := app.Unmount(name); err != nil {
			writeError(w, r, err, "Erro ao sair da página")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// GetPageChart renderiza um gráfico da página já carregada como HTML
func GetPageChart(app *dashboard.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := pageParam(w, r)
		if !ok {
			return
		}

		page, err := app.Page(name)
		if err != nil {
			writeError(w, r, err, "Página desconhecida")
			return
		}

		state := page.State()
		if state.Status != pages.StatusReady {
			apiErrors.WriteError(w, apiErrors.ErrPageNotReady, "A página ainda não tem dados", map[string]any{"status": state.Status})
			return
		}

		provider, ok := state.Data.(pages.ChartProvider)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrChartNotFound, "A página não possui gráficos", nil)
			return
		}

		chartName := httprouter.ParamsFromContext(r.Context()).ByName("chart")
		spec, ok := provider.Charts()[chartName]
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrChartNotFound, "Gráfico não encontrado", map[string]any{"chart": chartName})
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := charts.Render(w, spec, app.Theme()); err != nil {
			writeError(w, r, err, "Erro ao renderizar gráfico")
		}
	}
}

// pageParam valida o nome da página; a página de administração exige admin
func pageParam(w http.ResponseWriter, r *http.Request) (domain.PageName, bool) {
	raw := httprouter.ParamsFromContext(r.Context()).ByName("page")

	name, ok := domain.ParsePageName(raw)
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrPageNotFound, "Página desconhecida", map[string]any{"page": raw})
		return "", false
	}

	if name == domain.PageAdmin {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok || !claims.IsAdmin() {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas administradores podem acessar esta página", nil)
			return "", false
		}
	}

	return name, true
}

func awaitCurrent(ctx context.Context, page *pages.Page, id uint64) pages.State {
	for i := 0; i < maxSupersededWaits; i++ {
		state, err := page.Await(ctx, id)
		if errors.Is(err, pages.ErrSuperseded) {
			id = state.RequestID
			continue
		}
		return state
	}
	return page.State()
}

func pageResponse(state pages.State, warning *domain.DiscoveryWarning) PageResponse {
	resp := PageResponse{State: state, Warning: warning}

	if provider, ok := state.Data.(pages.ChartProvider); ok && state.Status == pages.StatusReady {
		for name := range provider.Charts() {
			resp.Charts = append(resp.Charts, name)
		}
		sort.Strings(resp.Charts)
	}

	return resp
}
