// dashctl acessa o dashboard pela linha de comando, usando a mesma sessão e
// as mesmas contas do servidor.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vfg2006/social-dashboard/infrastructure/backend"
	"github.com/vfg2006/social-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/social-dashboard/infrastructure/repository"
	"github.com/vfg2006/social-dashboard/internal/config"
	"github.com/vfg2006/social-dashboard/internal/session"
	"github.com/vfg2006/social-dashboard/internal/usecases/account"
	"github.com/vfg2006/social-dashboard/pkg/log"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "dashctl",
	Short:         "Cliente de linha de comando do dashboard de redes sociais",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !verbose {
			logrus.SetLevel(logrus.WarnLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Exibe os logs da aplicação")
}

// deps são as dependências compartilhadas pelos comandos
type deps struct {
	cfg      *config.Config
	session  *session.Session
	client   *backend.Client
	registry *account.Registry
	close    func()
}

func loadDeps(ctx context.Context) (*deps, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	if verbose {
		log.Setup(cfg.App.LogLevel)
	}

	sess := session.New(cfg.Session.FilePath)
	client := backend.NewClient(cfg.Backend, sess)

	repo := repository.NewMemoryAccountRepository()
	closeFn := func() {}
	if cfg.Database.Enabled {
		conn, err := postgres.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("conectar ao PostgreSQL: %w", err)
		}
		repo = repository.NewAccountRepository(conn)
		if err := repo.EnsureSchema(ctx); err != nil {
			conn.Close()
			return nil, err
		}
		closeFn = func() { conn.Close() }
	}

	defaults, err := account.ParseDefaults(cfg.Discovery.DefaultAccounts)
	if err != nil {
		closeFn()
		return nil, err
	}

	return &deps{
		cfg:      cfg,
		session:  sess,
		client:   client,
		registry: account.NewRegistry(repo, client, defaults, cfg.Discovery.Timeout),
		close:    closeFn,
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
}
