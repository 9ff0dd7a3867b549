package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/fdesign/nexus-sales-api/internal/config"
	"github.com/fdesign/nexus-sales-api/internal/domain"
	"github.com/fdesign/nexus-sales-api/internal/usecases/analytics"
)

// SnapshotSyncConfig representa a configuração do agendador de consolidação
type SnapshotSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// SnapshotSyncService mantém o snapshot administrativo aquecido,
// reconsolidando os dados das planilhas no intervalo configurado.
type SnapshotSyncService struct {
	scheduler           *gocron.Scheduler
	config              SnapshotSyncConfig
	insighter           analytics.Insighter
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSnapshot        *domain.Snapshot
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
}

// NewSnapshotSyncService cria uma nova instância do serviço de consolidação
func NewSnapshotSyncService(insighter analytics.Insighter, appConfig *config.Config) *SnapshotSyncService {
	syncConfig := SnapshotSyncConfig{
		CronSchedule: appConfig.SnapshotSync.CronSchedule,
		SyncEnabled:  appConfig.SnapshotSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de consolidação carregada")

	return &SnapshotSyncService{
		scheduler:   scheduler,
		config:      syncConfig,
		insighter:   insighter,
		syncRunning: false,
	}
}

// Start inicia o agendador
func (s *SnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Consolidação agendada do snapshot desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de consolidação do snapshot")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncSnapshot()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar consolidação do snapshot: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de consolidação do snapshot")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *SnapshotSyncService) syncSnapshot() {
	startTime := time.Now()

	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Consolidação do snapshot já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = startTime
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando consolidação do snapshot administrativo")

	snapshot, err := s.insighter.GetAdminSnapshot()
	if err != nil {
		s.syncMutex.Lock()
		s.lastSyncError = err.Error()
		s.syncMutex.Unlock()
		logrus.WithError(err).Error("Erro ao consolidar snapshot administrativo")
		return
	}

	s.syncMutex.Lock()
	s.lastSnapshot = snapshot
	s.lastSyncError = ""
	s.lastSyncCompletedAt = time.Now()
	s.syncMutex.Unlock()

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"duration": duration.String(),
		"users":    len(snapshot.Users),
		"budgets":  len(snapshot.Budgets),
		"sales":    len(snapshot.Sales),
	}).Info("Consolidação do snapshot concluída")
}

// TriggerManualSync dispara a consolidação fora do agendamento
func (s *SnapshotSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Consolidação do snapshot já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando consolidação manual do snapshot")
	go s.syncSnapshot()
}

// GetCachedSnapshot devolve o último snapshot consolidado, se houver
func (s *SnapshotSyncService) GetCachedSnapshot() *domain.Snapshot {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	return s.lastSnapshot
}

// GetStatus retorna o status atual do agendador
func (s *SnapshotSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"has_cached_snapshot":    s.lastSnapshot != nil,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_error":        s.lastSyncError,
	}
}
