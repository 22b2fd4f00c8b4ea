package domain

import "time"

// RunOutcome classifica o desfecho de uma execução do pipeline
type RunOutcome string

const (
	// RunSucceeded indica execução completa sem falhas de lote
	RunSucceeded RunOutcome = "success"
	// RunCompletedWithFailures indica execução completa com lotes falhos
	RunCompletedWithFailures RunOutcome = "completed_with_failures"
	// RunFailed indica falha dura (erro de configuração, de banco, ou todos os
	// lotes falharam)
	RunFailed RunOutcome = "failed"
)

// RunSummary resume uma execução do pipeline para logs, status da API de
// operação e código de saída do processo
type RunSummary struct {
	RunID          string         `json:"run_id"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	StartDate      string         `json:"start_date,omitempty"`
	EndDate        string         `json:"end_date,omitempty"`
	Conversions    int            `json:"conversions"`
	Touchpoints    int            `json:"touchpoints"`
	EmptyJourneys  int            `json:"empty_journeys"`
	Batches        int            `json:"batches"`
	FailedBatches  []BatchFailure `json:"failed_batches,omitempty"`
	ResultsWritten int            `json:"results_written"`
	ReportRows     int            `json:"report_rows"`
	Outcome        RunOutcome     `json:"outcome"`
}
