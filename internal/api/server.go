package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/social-dashboard/internal/api/handler"
	"github.com/vfg2006/social-dashboard/internal/api/handler/router"
	"github.com/vfg2006/social-dashboard/internal/config"
	"github.com/vfg2006/social-dashboard/internal/dashboard"
	"github.com/vfg2006/social-dashboard/internal/scheduler"
	"github.com/vfg2006/social-dashboard/internal/session"
	"github.com/vfg2006/social-dashboard/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

type Dependencies struct {
	App           *dashboard.App
	Accounts      handler.AccountService
	Authenticator handler.Authenticator
	Session       *session.Session
	DiscoverySync *scheduler.AccountDiscoverySyncService
	Location      *time.Location
}

func NewHandler(cfg *config.Config, deps Dependencies) http.Handler {
	cronServices := handler.CronJobServices{
		AccountDiscoverySyncService: deps.DiscoverySync,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(deps.Session)...),
		router.WithRoutes(handler.Authentication(deps.Authenticator, deps.Session)...),
		router.WithRoutes(handler.Accounts(deps.Accounts, deps.App)...),
		router.WithRoutes(handler.Filters(deps.App)...),
		router.WithRoutes(handler.Pages(deps.App, deps.Accounts, deps.Location)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(cfg.Server.AllowedOrigins),
		middleware.SessionMiddleware(deps.Session),
	}

	return alice.New(middlewares...).Then(rt)
}

func New(cfg *config.Config, deps Dependencies) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           NewHandler(cfg, deps),
			ReadHeaderTimeout: 2 * time.Second,
			WriteTimeout:      cfg.Backend.LongTimeout + 10*time.Second,
		},
	}
}

// Run atende até ctx ser cancelado e então desliga o servidor
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
			return err
		}
		return nil
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": shutdownTimeout.String(),
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
