package reporting

import (
	"context"
	"encoding/csv"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/attribution-pipeline/infrastructure/repository"
	"github.com/vfg2006/attribution-pipeline/internal/domain"
	"github.com/vfg2006/attribution-pipeline/pkg/utils"
)

var csvHeader = []string{"channel_name", "date", "cost", "ihc", "ihc_revenue", "CPO", "ROAS"}

// Service agrega os créditos persistidos com custo de sessão e receita de
// conversão no relatório final por (canal, data)
type Service interface {
	GenerateReport(ctx context.Context, journeys []domain.Journey, startDate, endDate string) ([]domain.ChannelReport, error)
	ExportCSV(reports []domain.ChannelReport, outputPath string) error
}

type service struct {
	reportRepo repository.ChannelReportRepository
}

func NewService(reportRepo repository.ChannelReportRepository) Service {
	return &service{
		reportRepo: reportRepo,
	}
}

// GenerateReport computa o relatório e o persiste, substituindo o conteúdo
// anterior (o relatório é recomputado do zero a cada execução).
//
// O custo de um grupo soma todas as sessões do canal/data presentes em alguma
// jornada da execução, independente do desfecho da atribuição. Uma sessão
// pode aparecer em várias jornadas do mesmo usuário e conta uma única vez.
func (s *service) GenerateReport(ctx context.Context, journeys []domain.Journey, startDate, endDate string) ([]domain.ChannelReport, error) {
	groups := make(map[groupKey]*domain.ChannelReport)

	seenSessions := make(map[string]struct{})
	for _, journey := range journeys {
		for _, tp := range journey.Touchpoints {
			if _, seen := seenSessions[tp.SessionID]; seen {
				continue
			}
			seenSessions[tp.SessionID] = struct{}{}

			group := ensureGroup(groups, tp.ChannelName, tp.EventDate)
			group.Cost += tp.Cost
		}
	}

	credits, err := s.reportRepo.GetAttributedCredit(startDate, endDate)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler créditos agregados do banco")
	}

	for _, credit := range credits {
		group := ensureGroup(groups, credit.ChannelName, credit.Date)
		group.IHC = credit.IHC
		group.IHCRevenue = credit.IHCRevenue
	}

	reports := make([]domain.ChannelReport, 0, len(groups))
	for _, group := range groups {
		group.CPO = computeCPO(group.Cost, group.IHC)
		group.ROAS = computeROAS(group.IHCRevenue, group.Cost)
		reports = append(reports, *group)
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].Date != reports[j].Date {
			return reports[i].Date < reports[j].Date
		}
		return reports[i].ChannelName < reports[j].ChannelName
	})

	if err := s.reportRepo.ReplaceReport(ctx, reports); err != nil {
		return nil, errors.Wrap(err, "erro ao persistir o relatório de canais")
	}

	logrus.WithField("rows", len(reports)).Info("Relatório de canais recomputado e persistido")

	return reports, nil
}

// ExportCSV grava o relatório no arquivo configurado, sempre sobrescrevendo.
// Razões indefinidas viram campo vazio.
func (s *service) ExportCSV(reports []domain.ChannelReport, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return errors.Wrapf(err, "erro ao criar o arquivo de relatório %s", outputPath)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return errors.Wrap(err, "erro ao escrever o cabeçalho do relatório")
	}

	for _, report := range reports {
		record := []string{
			report.ChannelName,
			report.Date,
			formatFloat(report.Cost),
			formatFloat(report.IHC),
			formatFloat(report.IHCRevenue),
			formatRatio(report.CPO),
			formatRatio(report.ROAS),
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrapf(err, "erro ao escrever linha de %s/%s", report.ChannelName, report.Date)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, "erro ao finalizar o arquivo de relatório")
	}

	logrus.WithFields(logrus.Fields{
		"path": outputPath,
		"rows": len(reports),
	}).Info("Relatório de canais exportado")

	return nil
}

type groupKey struct {
	channelName string
	date        string
}

func ensureGroup(groups map[groupKey]*domain.ChannelReport, channelName, date string) *domain.ChannelReport {
	key := groupKey{channelName: channelName, date: date}
	group, ok := groups[key]
	if !ok {
		group = &domain.ChannelReport{
			ChannelName: channelName,
			Date:        date,
		}
		groups[key] = group
	}
	return group
}

// computeCPO devolve cost/ihc, ou nil quando ihc == 0 (razão indefinida,
// nunca um erro de divisão)
func computeCPO(cost, ihc float64) *float64 {
	if ihc <= 0 {
		return nil
	}
	cpo := utils.RoundWithTwoDecimalPlace(cost / ihc)
	return &cpo
}

// computeROAS devolve ihc_revenue/cost, ou nil quando cost == 0
func computeROAS(ihcRevenue, cost float64) *float64 {
	if cost <= 0 {
		return nil
	}
	roas := utils.RoundWithTwoDecimalPlace(ihcRevenue / cost)
	return &roas
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatRatio(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}
