package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/attribution-pipeline/infrastructure/database/postgres"
	"github.com/vfg2006/attribution-pipeline/infrastructure/integrator/ihc/ihcclient"
	"github.com/vfg2006/attribution-pipeline/infrastructure/repository"
	"github.com/vfg2006/attribution-pipeline/internal/api"
	"github.com/vfg2006/attribution-pipeline/internal/config"
	"github.com/vfg2006/attribution-pipeline/internal/scheduler"
	"github.com/vfg2006/attribution-pipeline/internal/usecases/attributing"
	"github.com/vfg2006/attribution-pipeline/internal/usecases/journeying"
	"github.com/vfg2006/attribution-pipeline/internal/usecases/processing"
	"github.com/vfg2006/attribution-pipeline/internal/usecases/reporting"
	"github.com/vfg2006/attribution-pipeline/pkg/retry"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

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

	runner := processing.NewRunner(journeyService, attributionService, reportService, cfg)

	// Inicializa o agendador de execuções recorrentes
	runService := scheduler.NewAttributionRunService(runner, cfg)

	if err := runService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de execuções de atribuição")
	} else {
		logrus.Info("Agendador de execuções de atribuição iniciado com sucesso")
	}

	server, err := api.New(cfg, runService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
