package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/vfg2006/social-dashboard/internal/session"
	"github.com/vfg2006/social-dashboard/pkg/apiErrors"
	"github.com/vfg2006/social-dashboard/pkg/log"
)

type contextKey string

const (
	ContextKeyUser contextKey = "user"
)

var publicPaths = map[string]bool{
	"/healthcheck":      true,
	"/v1/auth/login":    true,
	"/v1/auth/register": true,
	"/v1/auth/facebook": true,
	"/v1/auth/session":  true,
	"/v1/preferences":   true,
}

// SessionMiddleware exige uma sessão ativa com o backend. Um token expirado
// é descartado e o usuário precisa entrar novamente.
func SessionMiddleware(sess *session.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			if sess.Token() == "" {
				apiErrors.WriteError(w, apiErrors.ErrSessionRequired, "Faça login para continuar", nil)
				return
			}

			if !sess.Authenticated(time.Now()) {
				log.ForContext(r.Context()).Warn("Sessão expirada, removendo token")
				sess.Clear()
				apiErrors.WriteError(w, apiErrors.ErrExpiredToken, "Sessão expirada, faça login novamente", nil)
				return
			}

			claims, err := sess.Claims()
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrSessionRequired, "Faça login para continuar", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext retorna as claims colocadas pelo SessionMiddleware
func ClaimsFromContext(ctx context.Context) (*session.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyUser).(*session.Claims)
	return claims, ok && claims != nil
}
