package journeying

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/attribution-pipeline/infrastructure/repository"
	"github.com/vfg2006/attribution-pipeline/internal/domain"
)

// Service monta as jornadas de cliente: uma por conversão qualificada, com os
// touchpoints do mesmo usuário ordenados no tempo até o instante da conversão
type Service interface {
	BuildJourneys(startDate, endDate string) ([]domain.Journey, error)
}

type service struct {
	journeyRepo repository.JourneyRepository
}

func NewService(journeyRepo repository.JourneyRepository) Service {
	return &service{
		journeyRepo: journeyRepo,
	}
}

func (s *service) BuildJourneys(startDate, endDate string) ([]domain.Journey, error) {
	rows, err := s.journeyRepo.ListConversionSessions(startDate, endDate)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler sessões e conversões do banco")
	}

	journeys := s.assembleJourneys(rows)

	s.logJourneyStats(journeys)

	return journeys, nil
}

// assembleJourneys agrupa as linhas (já ordenadas por conv_id e timestamp da
// sessão, com session_id como desempate) em jornadas. Linhas malformadas são
// um problema de qualidade de dados: a linha é descartada e logada, e a
// execução continua.
func (s *service) assembleJourneys(rows []repository.ConversionSessionRow) []domain.Journey {
	journeys := make([]domain.Journey, 0)

	var current *domain.Journey
	for _, row := range rows {
		if current == nil || current.ConvID != row.ConvID {
			if current != nil {
				journeys = append(journeys, *current)
			}

			conversion, err := domain.NewConversion(row.ConvID, row.UserID, row.ConvDate, row.ConvTime, row.Revenue)
			if err != nil {
				logrus.WithError(err).WithField("conv_id", row.ConvID).
					Warn("Conversão malformada descartada da montagem de jornadas")
				current = nil
				continue
			}

			current = &domain.Journey{
				ConvID:      conversion.ConvID,
				UserID:      conversion.UserID,
				ConvDate:    conversion.ConvDate,
				ConvTime:    conversion.ConvTime,
				Revenue:     conversion.Revenue,
				Touchpoints: make([]domain.Touchpoint, 0),
			}
		}

		if current == nil || !row.HasSession {
			// Conversão sem sessão qualificada ainda gera jornada (vazia)
			continue
		}

		touchpoint, err := s.buildTouchpoint(row, current)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"conv_id":    row.ConvID,
				"session_id": row.SessionID,
			}).Warn("Sessão malformada descartada da jornada")
			continue
		}

		current.Touchpoints = append(current.Touchpoints, *touchpoint)
	}

	if current != nil {
		journeys = append(journeys, *current)
	}

	return journeys
}

func (s *service) buildTouchpoint(row repository.ConversionSessionRow, journey *domain.Journey) (*domain.Touchpoint, error) {
	session, err := domain.NewSession(
		row.SessionID,
		row.UserID,
		row.ChannelName,
		row.EventDate,
		row.EventTime,
		row.HolderEngagement,
		row.CloserEngagement,
		row.ImpressionInteraction,
	)
	if err != nil {
		return nil, err
	}

	sessionTime, err := session.Timestamp()
	if err != nil {
		return nil, err
	}

	convTime, err := domain.ParseDateTime(journey.ConvDate, journey.ConvTime)
	if err != nil {
		return nil, err
	}

	// A query já garante sessão <= conversão; uma violação aqui é sinal de
	// qualidade de dados, não de controle de fluxo
	if sessionTime.After(convTime) {
		return nil, errors.Errorf(
			"sessão %s posterior à conversão %s", session.SessionID, journey.ConvID,
		)
	}

	return &domain.Touchpoint{
		SessionID:             session.SessionID,
		ChannelName:           session.ChannelName,
		EventDate:             session.EventDate,
		EventTime:             session.EventTime,
		HolderEngagement:      session.HolderEngagement,
		CloserEngagement:      session.CloserEngagement,
		ImpressionInteraction: session.ImpressionInteraction,
		Cost:                  row.Cost,
	}, nil
}

func (s *service) logJourneyStats(journeys []domain.Journey) {
	touchpoints := 0
	empty := 0
	totalRevenue := 0.0
	users := make(map[string]struct{})

	for _, journey := range journeys {
		touchpoints += len(journey.Touchpoints)
		if journey.IsEmpty() {
			empty++
		}
		totalRevenue += journey.Revenue
		users[journey.UserID] = struct{}{}
	}

	logrus.WithFields(logrus.Fields{
		"conversions":    len(journeys),
		"touchpoints":    touchpoints,
		"empty_journeys": empty,
		"unique_users":   len(users),
		"total_revenue":  totalRevenue,
	}).Info("Jornadas de cliente montadas")
}
