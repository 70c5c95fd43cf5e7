package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/vfg2006/social-dashboard/infrastructure/backend"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/session"
	"github.com/vfg2006/social-dashboard/pkg/apiErrors"
)

//go:generate mockgen -source=authentication.go -destination=mocks/authenticator_mock.go -package=mocks
type Authenticator interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error)
	FacebookLogin(ctx context.Context, accessToken string) (*domain.AuthResponse, error)
	Me(ctx context.Context) (*domain.User, error)
	Logout()
}

type FacebookLoginRequest struct {
	AccessToken string `json:"accessToken"`
}

// SessionResponse não expõe o token, que fica guardado no servidor
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
	Role          string       `json:"role,omitempty"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
}

func Login(service Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoginRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Email e senha são obrigatórios", nil)
			return
		}

		resp, err := service.Login(r.Context(), req)
		if err != nil {
			handleLoginError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, SessionResponse{Authenticated: true, User: &resp.User, Role: resp.User.Role})
	}
}

func Register(service Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.RegisterRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Nome, email e senha são obrigatórios", nil)
			return
		}

		resp, err := service.Register(r.Context(), req)
		if err != nil {
			var be *backend.Error
			if errors.As(err, &be) && be.Status == http.StatusConflict {
				apiErrors.WriteError(w, apiErrors.ErrUserAlreadyExists, "Usuário já cadastrado", nil)
				return
			}
			writeError(w, r, err, "Erro ao cadastrar usuário")
			return
		}

		writeJSON(w, http.StatusCreated, SessionResponse{Authenticated: true, User: &resp.User, Role: resp.User.Role})
	}
}

func FacebookLogin(service Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FacebookLoginRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if strings.TrimSpace(req.AccessToken) == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "accessToken é obrigatório", nil)
			return
		}

		resp, err := service.FacebookLogin(r.Context(), req.AccessToken)
		if err != nil {
			handleLoginError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, SessionResponse{Authenticated: true, User: &resp.User, Role: resp.User.Role})
	}
}

func Logout(service Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		service.Logout()
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetSession informa se há sessão ativa e, quando houver, o usuário do backend
func GetSession(service Authenticator, sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !sess.Authenticated(time.Now()) {
			writeJSON(w, http.StatusOK, SessionResponse{Authenticated: false})
			return
		}

		resp := SessionResponse{Authenticated: true}
		if claims, err := sess.Claims(); err == nil && claims != nil {
			resp.Role = claims.Role
			if claims.ExpiresAt != nil {
				expiresAt := claims.ExpiresAt.Time
				resp.ExpiresAt = &expiresAt
			}
		}

		user, err := service.Me(r.Context())
		if err != nil {
			if backend.IsKind(err, backend.KindUnauthorized) {
				writeJSON(w, http.StatusOK, SessionResponse{Authenticated: false})
				return
			}
			writeError(w, r, err, "Erro ao obter dados do usuário")
			return
		}

		resp.User = user
		if user.Role != "" {
			resp.Role = user.Role
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleLoginError(w http.ResponseWriter, r *http.Request, err error) {
	switch backend.KindOf(err) {
	case backend.KindUnauthorized, backend.KindPermissionDenied:
		apiErrors.WriteError(w, apiErrors.ErrInvalidCredentials, "Email ou senha inválidos", nil)
	default:
		writeError(w, r, err, "Erro ao realizar login")
	}
}
