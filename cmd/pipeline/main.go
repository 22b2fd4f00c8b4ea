package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/attribution-pipeline/infrastructure/database/postgres"
	"github.com/vfg2006/attribution-pipeline/infrastructure/integrator/ihc/ihcclient"
	"github.com/vfg2006/attribution-pipeline/infrastructure/repository"
	"github.com/vfg2006/attribution-pipeline/internal/config"
	"github.com/vfg2006/attribution-pipeline/internal/domain"
	"github.com/vfg2006/attribution-pipeline/internal/usecases/attributing"
	"github.com/vfg2006/attribution-pipeline/internal/usecases/journeying"
	"github.com/vfg2006/attribution-pipeline/internal/usecases/processing"
	"github.com/vfg2006/attribution-pipeline/internal/usecases/reporting"
	"github.com/vfg2006/attribution-pipeline/pkg/retry"
)

// Códigos de saída da execução: sucesso, falha dura e execução completa com
// lotes falhos
const (
	exitSuccess               = 0
	exitHardFailure           = 1
	exitCompletedWithFailures = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		// Erro de configuração é fatal antes de qualquer etapa rodar
		logrus.WithError(err).Error("Configuração inválida")
		return exitHardFailure
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Error("Erro ao conectar ao PostgreSQL")
		return exitHardFailure
	}
	defer pgConn.Close()

	runner := buildRunner(pgConn, cfg)

	summary, err := runner.Run(ctx)
	if err != nil {
		logrus.WithError(err).Error("Execução do pipeline de atribuição falhou")
		return exitHardFailure
	}

	if summary.Outcome == domain.RunCompletedWithFailures {
		return exitCompletedWithFailures
	}

	return exitSuccess
}

func buildRunner(pgConn *postgres.Connection, cfg *config.Config) processing.Runner {
	journeyRepo := repository.NewJourneyRepository(pgConn)
	attributionRepo := repository.NewAttributionRepository(pgConn)
	reportRepo := repository.NewChannelReportRepository(pgConn)

	ihcClient := ihcclient.NewClient(cfg)

	policy := retry.Policy{
		MaxRetries:  cfg.IHC.MaxRetries,
		BackoffBase: cfg.IHC.BackoffBase,
		BackoffCap:  cfg.IHC.BackoffCap,
	}

	journeyService := journeying.NewService(journeyRepo)
	attributionService := attributing.NewService(ihcClient, attributionRepo, policy, cfg)
	reportService := reporting.NewService(reportRepo)

	return processing.NewRunner(journeyService, attributionService, reportService, cfg)
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
