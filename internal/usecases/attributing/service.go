package attributing

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	ihcdomain "github.com/vfg2006/attribution-pipeline/infrastructure/integrator/ihc/domain"
	"github.com/vfg2006/attribution-pipeline/infrastructure/integrator/ihc/ihcclient"
	"github.com/vfg2006/attribution-pipeline/infrastructure/repository"
	"github.com/vfg2006/attribution-pipeline/internal/config"
	"github.com/vfg2006/attribution-pipeline/internal/domain"
	"github.com/vfg2006/attribution-pipeline/pkg/retry"
)

// Tolerância para a soma dos créditos de uma conversão (contrato da API: 1.0)
const ihcSumTolerance = 0.01

// ErrAllBatchesFailed indica que nenhum lote obteve resposta da API de
// scoring; a execução não pode afirmar que não houve atribuição
var ErrAllBatchesFailed = errors.New("todos os lotes falharam na API de scoring")

// Outcome resume o processamento dos lotes de uma execução
type Outcome struct {
	Batches        int
	FailedBatches  []domain.BatchFailure
	ResultsWritten int
}

// Service envia as jornadas em lotes para a API de scoring e persiste os
// créditos devolvidos. Um lote falho não aborta a execução; os seguintes
// continuam.
type Service interface {
	Process(ctx context.Context, journeys []domain.Journey) (*Outcome, error)
}

type service struct {
	client          ihcclient.Client
	attributionRepo repository.AttributionRepository
	policy          retry.Policy
	cfg             *config.Config
}

func NewService(
	client ihcclient.Client,
	attributionRepo repository.AttributionRepository,
	policy retry.Policy,
	cfg *config.Config,
) Service {
	return &service{
		client:          client,
		attributionRepo: attributionRepo,
		policy:          policy,
		cfg:             cfg,
	}
}

func (s *service) Process(ctx context.Context, journeys []domain.Journey) (*Outcome, error) {
	batches := Partition(journeys, s.cfg.IHC.BatchSize)

	outcome := &Outcome{
		Batches:       len(batches),
		FailedBatches: make([]domain.BatchFailure, 0),
	}

	attempted := 0
	for i, batch := range batches {
		request, submitted := s.buildRequest(batch)
		if len(request.Journeys) == 0 {
			// Lote só com jornadas vazias: nada a pontuar
			continue
		}
		attempted++

		results, err := s.scoreBatch(request)
		if err != nil {
			failure := domain.BatchFailure{
				BatchIndex: i,
				ConvIDs:    convIDs(batch),
				Reason:     err.Error(),
			}
			outcome.FailedBatches = append(outcome.FailedBatches, failure)

			logrus.WithError(err).WithFields(logrus.Fields{
				"batch":    i,
				"journeys": len(request.Journeys),
			}).Error("Lote marcado como falho, continuando com o próximo")
			continue
		}

		valid := s.validateResults(i, results, submitted)

		if err := s.attributionRepo.SaveOrUpdateBatch(ctx, valid); err != nil {
			// Erro de banco é fatal para a etapa, não um problema do lote
			return outcome, errors.Wrapf(err, "erro ao persistir créditos do lote %d", i)
		}
		outcome.ResultsWritten += len(valid)

		logrus.WithFields(logrus.Fields{
			"batch":   i,
			"results": len(valid),
		}).Info("Lote pontuado e persistido")
	}

	if attempted > 0 && len(outcome.FailedBatches) == attempted {
		return outcome, ErrAllBatchesFailed
	}

	return outcome, nil
}

// scoreBatch chama a API aplicando a política de novas tentativas: erros
// transitórios (rede, timeout, 429, 5xx) repetem o mesmo lote com backoff
// exponencial; os demais falham imediatamente
func (s *service) scoreBatch(request *ihcdomain.ScoringRequest) ([]ihcdomain.ScoringResult, error) {
	var results []ihcdomain.ScoringResult

	err := s.policy.Do(
		func() error {
			var callErr error
			results, callErr = s.client.ScoreJourneys(request)
			return callErr
		},
		ihcclient.IsTransient,
	)
	if err != nil {
		return nil, err
	}

	return results, nil
}

// buildRequest serializa as jornadas não vazias do lote e devolve o conjunto
// de pares (conv_id, session_id) submetidos, usado na validação da resposta
func (s *service) buildRequest(batch []domain.Journey) (*ihcdomain.ScoringRequest, map[string]struct{}) {
	submitted := make(map[string]struct{})
	payload := make([]ihcdomain.JourneyPayload, 0, len(batch))

	for _, journey := range batch {
		if journey.IsEmpty() {
			continue
		}

		touchpoints := make([]ihcdomain.TouchpointPayload, 0, len(journey.Touchpoints))
		for _, tp := range journey.Touchpoints {
			touchpoints = append(touchpoints, ihcdomain.TouchpointPayload{
				SessionID:             tp.SessionID,
				Channel:               tp.ChannelName,
				Timestamp:             formatTimestamp(tp.EventDate, tp.EventTime),
				HolderEngagement:      tp.HolderEngagement,
				CloserEngagement:      tp.CloserEngagement,
				ImpressionInteraction: tp.ImpressionInteraction,
			})
			submitted[pairKey(journey.ConvID, tp.SessionID)] = struct{}{}
		}

		payload = append(payload, ihcdomain.JourneyPayload{
			ConvID:      journey.ConvID,
			Touchpoints: touchpoints,
		})
	}

	return &ihcdomain.ScoringRequest{
		ConversionType:          s.cfg.IHC.ConvTypeID,
		Journeys:                payload,
		RedistributionParameter: ihcdomain.DefaultRedistributionParameter(),
	}, submitted
}

// validateResults filtra os créditos devolvidos: pares não submetidos são
// ignorados, créditos fora de [0,1] são descartados, e somas por conversão
// distantes de 1.0 são logadas como sinal de qualidade de dados. Um par
// submetido sem crédito na resposta não é erro.
func (s *service) validateResults(batchIndex int, results []ihcdomain.ScoringResult, submitted map[string]struct{}) []domain.AttributionResult {
	valid := make([]domain.AttributionResult, 0, len(results))
	sumByConv := make(map[string]float64)

	for _, result := range results {
		if _, ok := submitted[pairKey(result.ConvID, result.SessionID)]; !ok {
			logrus.WithFields(logrus.Fields{
				"batch":      batchIndex,
				"conv_id":    result.ConvID,
				"session_id": result.SessionID,
			}).Warn("API devolveu crédito para par não submetido, ignorando")
			continue
		}

		attribution := domain.AttributionResult{
			ConvID:    result.ConvID,
			SessionID: result.SessionID,
			IHC:       result.IHC,
		}
		if err := attribution.Validate(); err != nil {
			logrus.WithError(err).WithField("batch", batchIndex).
				Warn("Crédito inválido descartado")
			continue
		}

		valid = append(valid, attribution)
		sumByConv[result.ConvID] += result.IHC
	}

	for convID, sum := range sumByConv {
		if math.Abs(sum-1.0) > ihcSumTolerance {
			logrus.WithFields(logrus.Fields{
				"conv_id": convID,
				"ihc_sum": sum,
			}).Warn("Soma de créditos da conversão fora do contrato da API")
		}
	}

	return valid
}

// Partition divide as jornadas em lotes contíguos de no máximo size itens,
// preservando a ordem de chegada
func Partition(journeys []domain.Journey, size int) [][]domain.Journey {
	if size <= 0 || len(journeys) == 0 {
		return nil
	}

	batches := make([][]domain.Journey, 0, (len(journeys)+size-1)/size)
	for start := 0; start < len(journeys); start += size {
		end := start + size
		if end > len(journeys) {
			end = len(journeys)
		}
		batches = append(batches, journeys[start:end])
	}

	return batches
}

func convIDs(batch []domain.Journey) []string {
	ids := make([]string, 0, len(batch))
	for _, journey := range batch {
		ids = append(ids, journey.ConvID)
	}
	return ids
}

func pairKey(convID, sessionID string) string {
	return fmt.Sprintf("%s|%s", convID, sessionID)
}

func formatTimestamp(date, clock string) string {
	ts, err := domain.ParseDateTime(date, clock)
	if err != nil {
		// Touchpoints chegam validados da montagem de jornadas
		return date + " " + clock
	}
	return ts.UTC().Format(time.RFC3339)
}
