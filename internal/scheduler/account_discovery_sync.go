package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/social-dashboard/internal/config"
	"github.com/vfg2006/social-dashboard/internal/usecases/account"
)

var ErrSyncAlreadyRunning = errors.New("account discovery sync already running")

//go:generate mockgen -source=account_discovery_sync.go -destination=mocks/account_discoverer_mock.go -package=mocks
type AccountDiscoverer interface {
	Discover(ctx context.Context) (*account.DiscoveryResult, error)
}

// AccountDiscoverySyncConfig representa a configuração do agendador de descoberta de contas
type AccountDiscoverySyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// AccountDiscoverySyncService agenda a descoberta periódica das contas conectadas
type AccountDiscoverySyncService struct {
	scheduler  *gocron.Scheduler
	config     AccountDiscoverySyncConfig
	discoverer AccountDiscoverer

	syncMutex           sync.Mutex
	syncRunning         bool
	baseCtx             context.Context
	wg                  sync.WaitGroup
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
	lastDiscovered      int
}

// NewAccountDiscoverySyncService cria uma nova instância do serviço de descoberta de contas
func NewAccountDiscoverySyncService(discoverer AccountDiscoverer, cfg config.Discovery, loc *time.Location) *AccountDiscoverySyncService {
	if loc == nil {
		loc = time.Local
	}

	syncConfig := AccountDiscoverySyncConfig{
		CronSchedule: cfg.CronSchedule,
		SyncEnabled:  cfg.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de descoberta de contas carregada")

	return &AccountDiscoverySyncService{
		scheduler:  gocron.NewScheduler(loc),
		config:     syncConfig,
		discoverer: discoverer,
		baseCtx:    context.Background(),
	}
}

// Start inicia o agendador
func (s *AccountDiscoverySyncService) Start(ctx context.Context) error {
	s.syncMutex.Lock()
	s.baseCtx = ctx
	s.syncMutex.Unlock()

	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de contas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de descoberta de contas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.syncAccounts(); err != nil && !errors.Is(err, ErrSyncAlreadyRunning) {
			logrus.WithError(err).Error("Erro na descoberta agendada de contas")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar descoberta de contas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop para o agendador e espera a execução em andamento
func (s *AccountDiscoverySyncService) Stop() {
	if s.scheduler.IsRunning() {
		logrus.Info("Parando agendador de descoberta de contas")
		s.scheduler.Stop()
	}
	s.wg.Wait()
}

// syncAccounts executa uma descoberta, ignorando se já houver outra em andamento
func (s *AccountDiscoverySyncService) syncAccounts() error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Descoberta de contas já em andamento, ignorando")
		return ErrSyncAlreadyRunning
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	ctx := s.baseCtx
	s.wg.Add(1)
	s.syncMutex.Unlock()

	defer s.wg.Done()

	result, err := s.discoverer.Discover(ctx)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()

	switch {
	case err != nil:
		s.lastSyncError = err.Error()
	case result.Warning != nil:
		s.lastSyncError = result.Warning.Message
	default:
		s.lastSyncError = ""
		s.lastDiscovered = result.Discovered
	}

	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"duration":   s.lastSyncCompletedAt.Sub(s.lastSyncStartedAt).String(),
		"accounts":   len(result.Accounts),
		"discovered": result.Discovered,
	}).Info("Descoberta de contas concluída")

	return nil
}

// TriggerManualSync inicia manualmente uma descoberta de contas
func (s *AccountDiscoverySyncService) TriggerManualSync() error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Descoberta de contas já em andamento, ignorando solicitação manual")
		return ErrSyncAlreadyRunning
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando descoberta manual de contas")
	go func() {
		if err := s.syncAccounts(); err != nil && !errors.Is(err, ErrSyncAlreadyRunning) {
			logrus.WithError(err).Error("Erro na descoberta manual de contas")
		}
	}()

	return nil
}

// RunNow executa a descoberta de forma síncrona
func (s *AccountDiscoverySyncService) RunNow() error {
	return s.syncAccounts()
}

// GetStatus retorna o status atual do agendador
func (s *AccountDiscoverySyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_error":        s.lastSyncError,
		"last_discovered":        s.lastDiscovered,
	}
}
