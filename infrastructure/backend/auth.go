package backend

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/social-dashboard/internal/domain"
)

var ErrMissingToken = errors.New("backend: resposta de autenticação sem token")

func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	return c.authenticate(ctx, "/api/auth/login", req)
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	return c.authenticate(ctx, "/api/auth/register", req)
}

// FacebookLogin troca o access token do login social por um token do backend
func (c *Client) FacebookLogin(ctx context.Context, accessToken string) (*domain.AuthResponse, error) {
	return c.authenticate(ctx, "/api/auth/facebook", map[string]string{"accessToken": accessToken})
}

func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	payload, err := c.do(ctx, request{method: http.MethodGet, path: "/api/auth/me"})
	if err != nil {
		return nil, err
	}

	user := &domain.User{}
	if err := payload.Decode(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout encerra a sessão local; o backend não mantém estado de sessão
func (c *Client) Logout() {
	if c.session != nil {
		c.session.Clear()
	}
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*domain.AuthResponse, error) {
	payload, err := c.do(ctx, request{method: http.MethodPost, path: path, body: body, public: true})
	if err != nil {
		return nil, err
	}

	resp := &domain.AuthResponse{}
	if err := payload.Decode(resp); err != nil {
		return nil, err
	}

	if resp.Token == "" {
		return nil, ErrMissingToken
	}

	if c.session != nil {
		if err := c.session.Set(resp.Token); err != nil {
			logrus.WithError(err).Warn("backend: não foi possível salvar a sessão")
		}
	}

	logrus.WithField("email", resp.User.Email).Info("backend: login realizado com sucesso")

	return resp, nil
}
