package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/records-api/internal/config"
)

// Purger é o cache limpo pelo agendador
type Purger interface {
	PurgeExpired() int
	Len() int
}

// CacheJanitorConfig representa a configuração da limpeza periódica do cache
type CacheJanitorConfig struct {
	CronSchedule string
	Enabled      bool
}

// CacheJanitorService remove periodicamente as entradas vencidas do cache de relatórios.
// Só descarta o que já expirou, então nunca altera o resultado de uma leitura.
type CacheJanitorService struct {
	scheduler            *gocron.Scheduler
	config               CacheJanitorConfig
	cache                Purger
	purgeRunning         bool
	purgeMutex           sync.Mutex
	lastPurgeStartedAt   time.Time
	lastPurgeCompletedAt time.Time
	lastPurged           int
}

func NewCacheJanitorService(cache Purger, appConfig *config.Config) *CacheJanitorService {
	janitorConfig := CacheJanitorConfig{
		CronSchedule: appConfig.CacheJanitor.CronSchedule,
		Enabled:      appConfig.CacheJanitor.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": janitorConfig.CronSchedule,
		"enabled":       janitorConfig.Enabled,
	}).Info("Configuração da limpeza do cache carregada")

	return &CacheJanitorService{
		scheduler: gocron.NewScheduler(time.UTC),
		config:    janitorConfig,
		cache:     cache,
	}
}

// Start inicia o agendador
func (s *CacheJanitorService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Limpeza periódica do cache desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de limpeza do cache")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.purge()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar limpeza do cache: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de limpeza do cache")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *CacheJanitorService) purge() {
	s.purgeMutex.Lock()
	if s.purgeRunning {
		s.purgeMutex.Unlock()
		logrus.Info("Limpeza do cache já em andamento, ignorando")
		return
	}
	s.purgeRunning = true
	s.lastPurgeStartedAt = time.Now()
	s.purgeMutex.Unlock()

	purged := s.cache.PurgeExpired()

	s.purgeMutex.Lock()
	s.purgeRunning = false
	s.lastPurged = purged
	s.lastPurgeCompletedAt = time.Now()
	s.purgeMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"purged":    purged,
		"remaining": s.cache.Len(),
	}).Debug("Limpeza do cache concluída")
}

// TriggerManualSync executa uma limpeza manual das entradas vencidas, fora do agendamento.
// O nome atende à interface de jobs exposta em POST /v1/cron/:type/run
func (s *CacheJanitorService) TriggerManualSync() {
	s.purgeMutex.Lock()
	if s.purgeRunning {
		s.purgeMutex.Unlock()
		logrus.Info("Limpeza do cache já em andamento, ignorando solicitação manual")
		return
	}
	s.purgeMutex.Unlock()

	logrus.Info("Iniciando limpeza manual do cache")
	go s.purge()
}

// GetStatus retorna o status atual do agendador
func (s *CacheJanitorService) GetStatus() map[string]any {
	s.purgeMutex.Lock()
	defer s.purgeMutex.Unlock()

	return map[string]any{
		"enabled":                 s.config.Enabled,
		"cron":                    s.config.CronSchedule,
		"running":                 s.purgeRunning,
		"cache_entries":           s.cache.Len(),
		"last_purged":             s.lastPurged,
		"last_purge_started_at":   s.lastPurgeStartedAt,
		"last_purge_completed_at": s.lastPurgeCompletedAt,
	}
}
