package handler

import (
	"net/http"

	"github.com/vfg2006/social-dashboard/internal/dashboard"
	"github.com/vfg2006/social-dashboard/internal/domain"
)

type Preferences struct {
	Theme domain.Theme `json:"theme"`
}

func GetPreferences(app *dashboard.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Preferences{Theme: app.Theme()})
	}
}

func UpdatePreferences(app *dashboard.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Preferences
		if !decodeBody(w, r, &req) {
			return
		}

		if err := app.SetTheme(req.Theme); err != nil {
			writeError(w, r, err, "Tema inválido")
			return
		}

		writeJSON(w, http.StatusOK, Preferences{Theme: app.Theme()})
	}
}
