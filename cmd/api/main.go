package main

import (
	"context"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/social-dashboard/infrastructure/backend"
	"github.com/vfg2006/social-dashboard/infrastructure/cache"
	"github.com/vfg2006/social-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/social-dashboard/infrastructure/repository"
	"github.com/vfg2006/social-dashboard/internal/api"
	"github.com/vfg2006/social-dashboard/internal/config"
	"github.com/vfg2006/social-dashboard/internal/dashboard"
	"github.com/vfg2006/social-dashboard/internal/domain"
	"github.com/vfg2006/social-dashboard/internal/metrics"
	"github.com/vfg2006/social-dashboard/internal/pages"
	"github.com/vfg2006/social-dashboard/internal/querystate"
	"github.com/vfg2006/social-dashboard/internal/scheduler"
	"github.com/vfg2006/social-dashboard/internal/session"
	"github.com/vfg2006/social-dashboard/internal/usecases/account"
	"github.com/vfg2006/social-dashboard/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	level := log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := session.New(cfg.Session.FilePath)

	var opts []backend.Option
	if cfg.Cache.Enabled {
		rc, err := cache.New(cfg.Cache)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao criar cache de respostas")
		}
		defer rc.Close()

		opts = append(opts, backend.WithCache(rc))
	}

	client := backend.NewClient(cfg.Backend, sess, opts...)

	accountRepo, closeRepo := accountRepository(ctx, cfg.Database)
	defer closeRepo()

	defaults, err := account.ParseDefaults(cfg.Discovery.DefaultAccounts)
	if err != nil {
		logrus.WithError(err).Fatal("Contas padrão inválidas")
	}

	registry := account.NewRegistry(accountRepo, client, defaults, cfg.Discovery.Timeout)

	policy := metrics.PolicyFromConfig(cfg.Policy)

	store := querystate.New(&url.URL{Path: "/dashboard"}, nil, nil)

	app := dashboard.New(store, registry, domain.Theme(cfg.App.Theme),
		pages.New(domain.PageInstagram, pages.NewInstagramFetcher(client, policy)),
		pages.New(domain.PageFacebook, pages.NewFacebookFetcher(client, policy)),
		pages.New(domain.PageAds, pages.NewAdsFetcher(client, policy)),
		pages.New(domain.PageReports, pages.NewReportsFetcher(client, policy)),
		pages.New(domain.PageAdmin, pages.NewAdminFetcher(client)),
	)

	// sessão expirada ou logout descartam o que estava carregado
	app.BindSession(sess)

	app.Start(ctx)
	defer app.Stop()

	discoverySync := scheduler.NewAccountDiscoverySyncService(app, cfg.Discovery, cfg.Location())
	if err := discoverySync.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de descoberta de contas")
	} else {
		logrus.Info("Agendador de descoberta de contas iniciado com sucesso")
	}
	defer discoverySync.Stop()

	server := api.New(cfg, api.Dependencies{
		App:           app,
		Accounts:      registry,
		Authenticator: client,
		Session:       sess,
		DiscoverySync: discoverySync,
		Location:      cfg.Location(),
	})

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// accountRepository usa o PostgreSQL quando habilitado, senão mantém as
// contas em memória
func accountRepository(ctx context.Context, dbConfig config.Database) (repository.AccountRepository, func()) {
	if !dbConfig.Enabled {
		logrus.Info("Banco de dados desabilitado, contas mantidas em memória")
		return repository.NewMemoryAccountRepository(), func() {}
	}

	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	repo := repository.NewAccountRepository(conn)
	if err := repo.EnsureSchema(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao criar tabela de contas")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")

	return repo, func() {
		if err := conn.Close(); err != nil {
			logrus.WithError(err).Warn("Erro ao fechar conexão com PostgreSQL")
		}
	}
}
