package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/attribution-pipeline/internal/config"
	"github.com/vfg2006/attribution-pipeline/internal/domain"
	"github.com/vfg2006/attribution-pipeline/internal/usecases/processing"
)

// AttributionRunConfig representa a configuração do agendador de execuções
type AttributionRunConfig struct {
	CronSchedule string
	Enabled      bool
}

// AttributionRunService gerencia o agendamento e a execução recorrente do
// pipeline de atribuição. Uma execução nunca se sobrepõe a outra.
type AttributionRunService struct {
	scheduler         *gocron.Scheduler
	config            AttributionRunConfig
	runner            processing.Runner
	runActive         bool
	runMutex          sync.Mutex
	lastRunStartedAt  time.Time
	lastRunFinishedAt time.Time
	lastSummary       *domain.RunSummary
}

// NewAttributionRunService cria uma nova instância do serviço de execuções
// recorrentes do pipeline
func NewAttributionRunService(
	runner processing.Runner,
	appConfig *config.Config,
) *AttributionRunService {
	runConfig := AttributionRunConfig{
		CronSchedule: appConfig.AttributionRun.CronSchedule,
		Enabled:      appConfig.AttributionRun.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": runConfig.CronSchedule,
		"enabled":       runConfig.Enabled,
	}).Info("Configuração do agendador de execuções de atribuição carregada")

	return &AttributionRunService{
		scheduler: scheduler,
		config:    runConfig,
		runner:    runner,
		runActive: false,
	}
}

// Start inicia o agendador
func (s *AttributionRunService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Execuções recorrentes de atribuição desabilitadas por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de execuções de atribuição")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runPipeline(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar execução de atribuição: %w", err)
	}

	// Executar o agendador em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de execuções de atribuição")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualRun dispara uma execução fora do horário agendado
func (s *AttributionRunService) TriggerManualRun() {
	go s.runPipeline(context.Background())
}

// GetStatus retorna o estado atual do agendador e da última execução
func (s *AttributionRunService) GetStatus() map[string]any {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()

	status := map[string]any{
		"enabled":       s.config.Enabled,
		"cron_schedule": s.config.CronSchedule,
		"run_active":    s.runActive,
	}

	if !s.lastRunStartedAt.IsZero() {
		status["last_run_started_at"] = s.lastRunStartedAt.Format(time.RFC3339)
	}
	if !s.lastRunFinishedAt.IsZero() {
		status["last_run_finished_at"] = s.lastRunFinishedAt.Format(time.RFC3339)
	}
	if s.lastSummary != nil {
		status["last_run"] = s.lastSummary
	}

	return status
}

func (s *AttributionRunService) runPipeline(ctx context.Context) {
	s.runMutex.Lock()
	if s.runActive {
		s.runMutex.Unlock()
		logrus.Info("Execução de atribuição já em andamento, ignorando")
		return
	}
	s.runActive = true
	s.lastRunStartedAt = time.Now()
	s.runMutex.Unlock()

	defer func() {
		s.runMutex.Lock()
		s.runActive = false
		s.lastRunFinishedAt = time.Now()
		s.runMutex.Unlock()
	}()

	summary, err := s.runner.Run(ctx)
	if err != nil {
		logrus.WithError(err).Error("Execução agendada do pipeline de atribuição falhou")
	}

	s.runMutex.Lock()
	s.lastSummary = summary
	s.runMutex.Unlock()
}
