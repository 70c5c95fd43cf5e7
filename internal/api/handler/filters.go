package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/vfg2006/social-dashboard/internal/dashboard"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/querystate"
)

type FiltersUpdate struct {
	Account      *string `json:"account,omitempty"`
	ClearAccount bool    `json:"clear_account,omitempty"`
	Since        *int64  `json:"since,omitempty"`
	Until        *int64  `json:"until,omitempty"`
}

type FiltersResponse struct {
	domain.Filters
	Location string `json:"location"`
}

func GetFilters(app *dashboard.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applyQuery(app.Store(), r.URL.Query())
		respondFilters(w, r, app)
	}
}

func UpdateFilters(app *dashboard.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FiltersUpdate
		if !decodeBody(w, r, &req) {
			return
		}

		updates := map[string]*string{}

		switch {
		case req.ClearAccount:
			updates[domain.QueryAccount] = nil
		case req.Account != nil:
			updates[domain.QueryAccount] = req.Account
		}

		if req.Since != nil && req.Until != nil {
			if err := (domain.DateRange{Since: *req.Since, Until: *req.Until}).Validate(); err != nil {
				writeError(w, r, err, "Período inválido")
				return
			}
		}
		if req.Since != nil {
			updates[domain.QuerySince] = querystate.Value(strconv.FormatInt(*req.Since, 10))
		}
		if req.Until != nil {
			updates[domain.QueryUntil] = querystate.Value(strconv.FormatInt(*req.Until, 10))
		}

		if len(updates) > 0 {
			app.Store().Set(updates)
		}

		respondFilters(w, r, app)
	}
}

func respondFilters(w http.ResponseWriter, r *http.Request, app *dashboard.App) {
	filters, err := app.Filters(r.Context())
	if err != nil {
		writeError(w, r, err, "Erro ao resolver filtros")
		return
	}

	writeJSON(w, http.StatusOK, FiltersResponse{
		Filters:  filters,
		Location: app.Store().Location().String(),
	})
}

// applyQuery copia para o store as chaves de filtro presentes na URL da
// requisição, como uma navegação externa
func applyQuery(store *querystate.Store, query url.Values) {
	updates := map[string]*string{}
	for _, key := range []string{domain.QueryAccount, domain.QuerySince, domain.QueryUntil} {
		if _, ok := query[key]; ok {
			updates[key] = querystate.Value(query.Get(key))
		}
	}

	if len(updates) == 0 {
		return
	}

	current := store.Snapshot()
	for key, value := range updates {
		if current.Get(key) == *value {
			delete(updates, key)
		}
	}

	if len(updates) > 0 {
		store.Set(updates)
	}
}
