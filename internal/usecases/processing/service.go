package processing

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/attribution-pipeline/internal/config"
	"github.com/vfg2006/attribution-pipeline/internal/domain"
	"github.com/vfg2006/attribution-pipeline/internal/usecases/attributing"
	"github.com/vfg2006/attribution-pipeline/internal/usecases/journeying"
	"github.com/vfg2006/attribution-pipeline/internal/usecases/reporting"
	"github.com/vfg2006/attribution-pipeline/pkg/utils"
)

// Runner executa o pipeline de atribuição de ponta a ponta, estritamente
// sequencial: montagem de jornadas, scoring em lotes, agregação do relatório.
// A saída de cada etapa é totalmente materializada antes da seguinte rodar.
type Runner interface {
	Run(ctx context.Context) (*domain.RunSummary, error)
}

type runner struct {
	journeyService     journeying.Service
	attributionService attributing.Service
	reportService      reporting.Service
	cfg                *config.Config
}

func NewRunner(
	journeyService journeying.Service,
	attributionService attributing.Service,
	reportService reporting.Service,
	cfg *config.Config,
) Runner {
	return &runner{
		journeyService:     journeyService,
		attributionService: attributionService,
		reportService:      reportService,
		cfg:                cfg,
	}
}

func (r *runner) Run(ctx context.Context) (*domain.RunSummary, error) {
	runID, err := utils.GenerateRunID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar o id da execução")
	}

	summary := &domain.RunSummary{
		RunID:     runID,
		StartedAt: time.Now(),
		StartDate: r.cfg.Pipeline.StartDate,
		EndDate:   r.cfg.Pipeline.EndDate,
		Outcome:   domain.RunFailed,
	}

	logger := logrus.WithFields(logrus.Fields{
		"run_id":     runID,
		"start_date": summary.StartDate,
		"end_date":   summary.EndDate,
	})
	logger.Info("Iniciando execução do pipeline de atribuição")

	journeys, err := r.journeyService.BuildJourneys(summary.StartDate, summary.EndDate)
	if err != nil {
		r.finish(summary, logger)
		return summary, errors.Wrap(err, "falha na montagem de jornadas")
	}
	summary.Conversions = len(journeys)
	for _, journey := range journeys {
		summary.Touchpoints += len(journey.Touchpoints)
		if journey.IsEmpty() {
			summary.EmptyJourneys++
		}
	}

	outcome, err := r.attributionService.Process(ctx, journeys)
	if outcome != nil {
		summary.Batches = outcome.Batches
		summary.FailedBatches = outcome.FailedBatches
		summary.ResultsWritten = outcome.ResultsWritten
	}
	if err != nil {
		r.finish(summary, logger)
		return summary, errors.Wrap(err, "falha no scoring de atribuição")
	}

	reports, err := r.reportService.GenerateReport(ctx, journeys, summary.StartDate, summary.EndDate)
	if err != nil {
		r.finish(summary, logger)
		return summary, errors.Wrap(err, "falha na agregação do relatório")
	}
	summary.ReportRows = len(reports)

	if err := r.reportService.ExportCSV(reports, r.cfg.Pipeline.ReportOutputPath); err != nil {
		r.finish(summary, logger)
		return summary, errors.Wrap(err, "falha na exportação do relatório")
	}

	if len(summary.FailedBatches) > 0 {
		summary.Outcome = domain.RunCompletedWithFailures
	} else {
		summary.Outcome = domain.RunSucceeded
	}

	r.finish(summary, logger)
	return summary, nil
}

// finish fecha o sumário e enumera as falhas parciais na saída da execução
func (r *runner) finish(summary *domain.RunSummary, logger *logrus.Entry) {
	summary.FinishedAt = time.Now()

	for _, failure := range summary.FailedBatches {
		logger.WithFields(logrus.Fields{
			"batch":    failure.BatchIndex,
			"conv_ids": failure.ConvIDs,
			"reason":   failure.Reason,
		}).Warn("Lote falho na execução")
	}

	logger.WithFields(logrus.Fields{
		"outcome":         summary.Outcome,
		"conversions":     summary.Conversions,
		"touchpoints":     summary.Touchpoints,
		"batches":         summary.Batches,
		"failed_batches":  len(summary.FailedBatches),
		"results_written": summary.ResultsWritten,
		"report_rows":     summary.ReportRows,
		"duration":        summary.FinishedAt.Sub(summary.StartedAt).String(),
	}).Info("Execução do pipeline finalizada")
}
