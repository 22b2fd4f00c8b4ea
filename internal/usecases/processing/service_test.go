package processing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ihcdomain "github.com/vfg2006/attribution-pipeline/infrastructure/integrator/ihc/domain"
	"github.com/vfg2006/attribution-pipeline/infrastructure/integrator/ihc/ihcclient"
	ihcmocks "github.com/vfg2006/attribution-pipeline/infrastructure/integrator/ihc/mocks"
	"github.com/vfg2006/attribution-pipeline/infrastructure/repository"
	"github.com/vfg2006/attribution-pipeline/infrastructure/repository/mocks"
	"github.com/vfg2006/attribution-pipeline/internal/config"
	"github.com/vfg2006/attribution-pipeline/internal/domain"
	"github.com/vfg2006/attribution-pipeline/internal/usecases/attributing"
	"github.com/vfg2006/attribution-pipeline/internal/usecases/journeying"
	"github.com/vfg2006/attribution-pipeline/internal/usecases/reporting"
	"github.com/vfg2006/attribution-pipeline/pkg/retry"
	"go.uber.org/mock/gomock"
)

type runnerFixture struct {
	journeyRepo     *mocks.MockJourneyRepository
	attributionRepo *mocks.MockAttributionRepository
	reportRepo      *mocks.MockChannelReportRepository
	client          *ihcmocks.MockClient
	cfg             *config.Config
	runner          Runner
}

func newRunnerFixture(t *testing.T, batchSize int) *runnerFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &runnerFixture{
		journeyRepo:     mocks.NewMockJourneyRepository(ctrl),
		attributionRepo: mocks.NewMockAttributionRepository(ctrl),
		reportRepo:      mocks.NewMockChannelReportRepository(ctrl),
		client:          ihcmocks.NewMockClient(ctrl),
	}

	f.cfg = &config.Config{
		IHC: config.IHC{
			ConvTypeID: "orders",
			BatchSize:  batchSize,
		},
		Pipeline: config.Pipeline{
			ReportOutputPath: filepath.Join(t.TempDir(), "channel_reporting.csv"),
		},
	}

	policy := retry.Policy{
		MaxRetries:  0,
		BackoffBase: time.Millisecond,
		Sleep:       func(time.Duration) {},
	}

	f.runner = NewRunner(
		journeying.NewService(f.journeyRepo),
		attributing.NewService(f.client, f.attributionRepo, policy, f.cfg),
		reporting.NewService(f.reportRepo),
		f.cfg,
	)

	return f
}

func conversionRow(convID, sessionID, channel string, cost float64) repository.ConversionSessionRow {
	return repository.ConversionSessionRow{
		ConvID:      convID,
		UserID:      "user-1",
		ConvDate:    "2024-01-20",
		ConvTime:    "12:00:00",
		Revenue:     100,
		HasSession:  true,
		SessionID:   sessionID,
		ChannelName: channel,
		EventDate:   "2024-01-19",
		EventTime:   "10:00:00",
		Cost:        cost,
	}
}

func TestRunner_Run_ExecucaoCompleta(t *testing.T) {
	f := newRunnerFixture(t, 10)

	f.journeyRepo.EXPECT().
		ListConversionSessions("", "").
		Return([]repository.ConversionSessionRow{
			conversionRow("conv-1", "s1", "Paid Search", 10),
			{
				ConvID:     "conv-2",
				UserID:     "user-2",
				ConvDate:   "2024-01-21",
				ConvTime:   "09:00:00",
				Revenue:    50,
				HasSession: false,
			},
		}, nil)

	f.client.EXPECT().
		ScoreJourneys(gomock.Any()).
		Return([]ihcdomain.ScoringResult{
			{ConvID: "conv-1", SessionID: "s1", IHC: 1.0},
		}, nil)

	f.attributionRepo.EXPECT().
		SaveOrUpdateBatch(gomock.Any(), gomock.Any()).
		Return(nil)

	f.reportRepo.EXPECT().
		GetAttributedCredit("", "").
		Return([]repository.CreditRow{
			{ChannelName: "Paid Search", Date: "2024-01-19", IHC: 1.0, IHCRevenue: 100},
		}, nil)

	f.reportRepo.EXPECT().
		ReplaceReport(gomock.Any(), gomock.Any()).
		Return(nil)

	summary, err := f.runner.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, domain.RunSucceeded, summary.Outcome)
	assert.Equal(t, 2, summary.Conversions)
	assert.Equal(t, 1, summary.Touchpoints)
	assert.Equal(t, 1, summary.EmptyJourneys)
	assert.Equal(t, 1, summary.Batches)
	assert.Empty(t, summary.FailedBatches)
	assert.Equal(t, 1, summary.ResultsWritten)
	assert.Equal(t, 1, summary.ReportRows)
	assert.False(t, summary.FinishedAt.Before(summary.StartedAt))

	content, err := os.ReadFile(f.cfg.Pipeline.ReportOutputPath)
	require.NoError(t, err)
	assert.Equal(t,
		"channel_name,date,cost,ihc,ihc_revenue,CPO,ROAS\n"+
			"Paid Search,2024-01-19,10,1,100,10,10\n",
		string(content))
}

func TestRunner_Run_ConcluiComFalhasParciais(t *testing.T) {
	f := newRunnerFixture(t, 1)

	f.journeyRepo.EXPECT().
		ListConversionSessions("", "").
		Return([]repository.ConversionSessionRow{
			conversionRow("conv-1", "s1", "Paid Search", 10),
			conversionRow("conv-2", "s2", "Display", 5),
		}, nil)

	first := f.client.EXPECT().
		ScoreJourneys(gomock.Any()).
		Return(nil, &ihcclient.APIError{StatusCode: 500, Body: "boom"})

	f.client.EXPECT().
		ScoreJourneys(gomock.Any()).
		Return([]ihcdomain.ScoringResult{
			{ConvID: "conv-2", SessionID: "s2", IHC: 1.0},
		}, nil).
		After(first)

	f.attributionRepo.EXPECT().
		SaveOrUpdateBatch(gomock.Any(), gomock.Any()).
		Return(nil)

	f.reportRepo.EXPECT().
		GetAttributedCredit("", "").
		Return([]repository.CreditRow{}, nil)

	f.reportRepo.EXPECT().
		ReplaceReport(gomock.Any(), gomock.Any()).
		Return(nil)

	summary, err := f.runner.Run(context.Background())
	require.NoError(t, err)

	// Lote falho não aborta a execução, mas marca o desfecho
	assert.Equal(t, domain.RunCompletedWithFailures, summary.Outcome)
	require.Len(t, summary.FailedBatches, 1)
	assert.Equal(t, []string{"conv-1"}, summary.FailedBatches[0].ConvIDs)
	assert.Equal(t, 1, summary.ResultsWritten)

	// O relatório é gerado mesmo com lotes falhos
	_, err = os.Stat(f.cfg.Pipeline.ReportOutputPath)
	assert.NoError(t, err)
}

func TestRunner_Run_FalhaDuraQuandoTodosOsLotesFalham(t *testing.T) {
	f := newRunnerFixture(t, 10)

	f.journeyRepo.EXPECT().
		ListConversionSessions("", "").
		Return([]repository.ConversionSessionRow{
			conversionRow("conv-1", "s1", "Paid Search", 10),
		}, nil)

	f.client.EXPECT().
		ScoreJourneys(gomock.Any()).
		Return(nil, &ihcclient.APIError{StatusCode: 400, Body: "bad request"})

	summary, err := f.runner.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, attributing.ErrAllBatchesFailed)
	assert.Equal(t, domain.RunFailed, summary.Outcome)

	// Nada de relatório em falha dura
	_, statErr := os.Stat(f.cfg.Pipeline.ReportOutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunner_Run_FalhaNaMontagemDeJornadas(t *testing.T) {
	f := newRunnerFixture(t, 10)

	f.journeyRepo.EXPECT().
		ListConversionSessions("", "").
		Return(nil, assert.AnError)

	summary, err := f.runner.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, domain.RunFailed, summary.Outcome)
}
