package attributing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ihcdomain "github.com/vfg2006/attribution-pipeline/infrastructure/integrator/ihc/domain"
	"github.com/vfg2006/attribution-pipeline/infrastructure/integrator/ihc/ihcclient"
	ihcmocks "github.com/vfg2006/attribution-pipeline/infrastructure/integrator/ihc/mocks"
	"github.com/vfg2006/attribution-pipeline/infrastructure/repository/mocks"
	"github.com/vfg2006/attribution-pipeline/internal/config"
	"github.com/vfg2006/attribution-pipeline/internal/domain"
	"github.com/vfg2006/attribution-pipeline/pkg/retry"
	"go.uber.org/mock/gomock"
)

func testConfig(batchSize int) *config.Config {
	return &config.Config{
		IHC: config.IHC{
			ConvTypeID: "orders",
			BatchSize:  batchSize,
		},
	}
}

func testPolicy(maxRetries int) retry.Policy {
	return retry.Policy{
		MaxRetries:  maxRetries,
		BackoffBase: time.Millisecond,
		Sleep:       func(time.Duration) {},
	}
}

func journeyWithSessions(convID string, sessionIDs ...string) domain.Journey {
	journey := domain.Journey{
		ConvID:   convID,
		UserID:   "user-1",
		ConvDate: "2024-01-20",
		ConvTime: "12:00:00",
		Revenue:  100,
	}
	for _, sessionID := range sessionIDs {
		journey.Touchpoints = append(journey.Touchpoints, domain.Touchpoint{
			SessionID:   sessionID,
			ChannelName: "Paid Search",
			EventDate:   "2024-01-19",
			EventTime:   "10:00:00",
		})
	}
	return journey
}

func TestPartition(t *testing.T) {
	journeys := []domain.Journey{
		journeyWithSessions("conv-1", "s1"),
		journeyWithSessions("conv-2", "s2"),
		journeyWithSessions("conv-3", "s3"),
		journeyWithSessions("conv-4", "s4"),
		journeyWithSessions("conv-5", "s5"),
	}

	tests := []struct {
		name      string
		size      int
		wantSizes []int
	}{
		{
			name:      "Divisão exata",
			size:      5,
			wantSizes: []int{5},
		},
		{
			name:      "Último lote menor",
			size:      2,
			wantSizes: []int{2, 2, 1},
		},
		{
			name:      "Tamanho maior que a entrada",
			size:      10,
			wantSizes: []int{5},
		},
		{
			name:      "Tamanho inválido não gera lotes",
			size:      0,
			wantSizes: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := Partition(journeys, tt.size)

			require.Len(t, batches, len(tt.wantSizes))

			seen := make([]string, 0, len(journeys))
			for i, batch := range batches {
				assert.Len(t, batch, tt.wantSizes[i])
				for _, journey := range batch {
					seen = append(seen, journey.ConvID)
				}
			}

			if len(tt.wantSizes) > 0 {
				// A partição preserva a ordem de chegada
				assert.Equal(t, []string{"conv-1", "conv-2", "conv-3", "conv-4", "conv-5"}, seen)
			}
		})
	}
}

func TestService_Process_RepeteLoteEmErroTransitorio(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := ihcmocks.NewMockClient(ctrl)
	mockRepo := mocks.NewMockAttributionRepository(ctrl)

	maxRetries := 3

	// Erro transitório repete o mesmo lote até esgotar as tentativas
	mockClient.EXPECT().
		ScoreJourneys(gomock.Any()).
		Return(nil, &ihcclient.APIError{StatusCode: 503, Body: "service unavailable"}).
		Times(maxRetries + 1)

	service := NewService(mockClient, mockRepo, testPolicy(maxRetries), testConfig(10))

	outcome, err := service.Process(context.Background(), []domain.Journey{
		journeyWithSessions("conv-1", "s1"),
	})

	// Todos os lotes falharam: a execução não pode afirmar o resultado
	assert.ErrorIs(t, err, ErrAllBatchesFailed)
	require.NotNil(t, outcome)
	assert.Equal(t, 1, outcome.Batches)
	require.Len(t, outcome.FailedBatches, 1)
	assert.Equal(t, 0, outcome.FailedBatches[0].BatchIndex)
	assert.Equal(t, []string{"conv-1"}, outcome.FailedBatches[0].ConvIDs)
	assert.Zero(t, outcome.ResultsWritten)
}

func TestService_Process_ErroPermanenteNaoRepete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := ihcmocks.NewMockClient(ctrl)
	mockRepo := mocks.NewMockAttributionRepository(ctrl)

	// 4xx (exceto 429) é permanente: uma única chamada
	mockClient.EXPECT().
		ScoreJourneys(gomock.Any()).
		Return(nil, &ihcclient.APIError{StatusCode: 400, Body: "bad request"}).
		Times(1)

	service := NewService(mockClient, mockRepo, testPolicy(3), testConfig(10))

	outcome, err := service.Process(context.Background(), []domain.Journey{
		journeyWithSessions("conv-1", "s1"),
	})

	assert.ErrorIs(t, err, ErrAllBatchesFailed)
	require.Len(t, outcome.FailedBatches, 1)
}

func TestService_Process_LoteFalhoNaoAbortaOsSeguintes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := ihcmocks.NewMockClient(ctrl)
	mockRepo := mocks.NewMockAttributionRepository(ctrl)

	first := mockClient.EXPECT().
		ScoreJourneys(gomock.Any()).
		Return(nil, &ihcclient.APIError{StatusCode: 500, Body: "boom"})

	mockClient.EXPECT().
		ScoreJourneys(gomock.Any()).
		Return([]ihcdomain.ScoringResult{
			{ConvID: "conv-2", SessionID: "s2", IHC: 1.0},
		}, nil).
		After(first)

	var saved []domain.AttributionResult
	mockRepo.EXPECT().
		SaveOrUpdateBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, results []domain.AttributionResult) error {
			saved = results
			return nil
		})

	service := NewService(mockClient, mockRepo, testPolicy(0), testConfig(1))

	outcome, err := service.Process(context.Background(), []domain.Journey{
		journeyWithSessions("conv-1", "s1"),
		journeyWithSessions("conv-2", "s2"),
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, outcome.Batches)
	require.Len(t, outcome.FailedBatches, 1)
	assert.Equal(t, 0, outcome.FailedBatches[0].BatchIndex)
	assert.Equal(t, 1, outcome.ResultsWritten)

	require.Len(t, saved, 1)
	assert.Equal(t, "conv-2", saved[0].ConvID)
	assert.Equal(t, "s2", saved[0].SessionID)
	assert.Equal(t, 1.0, saved[0].IHC)
}

func TestService_Process_JornadasVaziasNaoVaoParaAAPI(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := ihcmocks.NewMockClient(ctrl)
	mockRepo := mocks.NewMockAttributionRepository(ctrl)

	// Jornadas vazias ficam fora do payload; lote só com vazias nem chama a API
	var request *ihcdomain.ScoringRequest
	mockClient.EXPECT().
		ScoreJourneys(gomock.Any()).
		DoAndReturn(func(req *ihcdomain.ScoringRequest) ([]ihcdomain.ScoringResult, error) {
			request = req
			return []ihcdomain.ScoringResult{
				{ConvID: "conv-2", SessionID: "s2", IHC: 1.0},
			}, nil
		}).
		Times(1)

	mockRepo.EXPECT().
		SaveOrUpdateBatch(gomock.Any(), gomock.Any()).
		Return(nil)

	service := NewService(mockClient, mockRepo, testPolicy(0), testConfig(2))

	outcome, err := service.Process(context.Background(), []domain.Journey{
		journeyWithSessions("conv-1"), // vazia
		journeyWithSessions("conv-2", "s2"),
		journeyWithSessions("conv-3"), // vazia, lote só com ela
		journeyWithSessions("conv-4"),
	})

	assert.NoError(t, err)
	assert.Empty(t, outcome.FailedBatches)

	require.NotNil(t, request)
	require.Len(t, request.Journeys, 1)
	assert.Equal(t, "conv-2", request.Journeys[0].ConvID)
	assert.Equal(t, "orders", request.ConversionType)
	require.Len(t, request.Journeys[0].Touchpoints, 1)
	assert.Equal(t, "2024-01-19T10:00:00Z", request.Journeys[0].Touchpoints[0].Timestamp)
}

func TestService_Process_ValidacaoDaResposta(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := ihcmocks.NewMockClient(ctrl)
	mockRepo := mocks.NewMockAttributionRepository(ctrl)

	mockClient.EXPECT().
		ScoreJourneys(gomock.Any()).
		Return([]ihcdomain.ScoringResult{
			{ConvID: "conv-1", SessionID: "s1", IHC: 0.7},
			{ConvID: "conv-1", SessionID: "desconhecida", IHC: 0.3}, // par não submetido
			{ConvID: "conv-1", SessionID: "s2", IHC: 1.5},           // fora de [0,1]
		}, nil)

	var saved []domain.AttributionResult
	mockRepo.EXPECT().
		SaveOrUpdateBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, results []domain.AttributionResult) error {
			saved = results
			return nil
		})

	service := NewService(mockClient, mockRepo, testPolicy(0), testConfig(10))

	// s3 foi submetida mas não voltou na resposta: não é erro, apenas sem linha
	outcome, err := service.Process(context.Background(), []domain.Journey{
		journeyWithSessions("conv-1", "s1", "s2", "s3"),
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, outcome.ResultsWritten)

	require.Len(t, saved, 1)
	assert.Equal(t, "s1", saved[0].SessionID)
	assert.Equal(t, 0.7, saved[0].IHC)
}

func TestService_Process_ErroDeBancoEhFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := ihcmocks.NewMockClient(ctrl)
	mockRepo := mocks.NewMockAttributionRepository(ctrl)

	mockClient.EXPECT().
		ScoreJourneys(gomock.Any()).
		Return([]ihcdomain.ScoringResult{
			{ConvID: "conv-1", SessionID: "s1", IHC: 1.0},
		}, nil)

	mockRepo.EXPECT().
		SaveOrUpdateBatch(gomock.Any(), gomock.Any()).
		Return(assert.AnError)

	service := NewService(mockClient, mockRepo, testPolicy(0), testConfig(10))

	_, err := service.Process(context.Background(), []domain.Journey{
		journeyWithSessions("conv-1", "s1"),
	})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAllBatchesFailed)
}

func TestService_Process_SemJornadasNaoChamaAAPI(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := ihcmocks.NewMockClient(ctrl)
	mockRepo := mocks.NewMockAttributionRepository(ctrl)

	service := NewService(mockClient, mockRepo, testPolicy(0), testConfig(10))

	outcome, err := service.Process(context.Background(), nil)

	assert.NoError(t, err)
	assert.Zero(t, outcome.Batches)
	assert.Empty(t, outcome.FailedBatches)
}
