package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/social-dashboard/internal/session"
)

func HealthcheckHandler(sess *session.Session) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":        "ok",
			"time":          time.Now().Format(time.RFC3339),
			"authenticated": sess.Authenticated(time.Now()),
		})
	})
}
