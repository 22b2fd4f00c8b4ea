package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/attribution-pipeline/infrastructure/database/postgres"
	"github.com/vfg2006/attribution-pipeline/internal/domain"
)

const channelReportingTable = "channel_reporting"

// CreditRow agrega o crédito atribuído por (canal, data da sessão):
// soma de ihc e soma de ihc × receita da conversão
type CreditRow struct {
	ChannelName string
	Date        string
	IHC         float64
	IHCRevenue  float64
}

type ChannelReportRepository interface {
	// GetAttributedCredit junta os créditos persistidos com sessão (canal,
	// data) e conversão (receita), agrupados por canal e data. O intervalo
	// opcional filtra pela data da conversão.
	GetAttributedCredit(startDate, endDate string) ([]CreditRow, error)
	// ReplaceReport substitui integralmente o relatório em uma transação
	// (o relatório é recomputado do zero a cada execução)
	ReplaceReport(ctx context.Context, reports []domain.ChannelReport) error
}

type channelReportRepository struct {
	conn *postgres.Connection
}

func NewChannelReportRepository(conn *postgres.Connection) ChannelReportRepository {
	return &channelReportRepository{
		conn: conn,
	}
}

func (r *channelReportRepository) GetAttributedCredit(startDate, endDate string) ([]CreditRow, error) {
	builder := squirrel.
		Select(
			"s.channel_name",
			"s.event_date",
			"SUM(acj.ihc)",
			"SUM(acj.ihc * cv.revenue)",
		).
		From("attribution_customer_journey acj").
		Join("session_sources s ON s.session_id = acj.session_id").
		Join("conversions cv ON cv.conv_id = acj.conv_id").
		GroupBy("s.channel_name", "s.event_date").
		OrderBy("s.event_date ASC", "s.channel_name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if startDate != "" {
		builder = builder.Where(squirrel.GtOrEq{"cv.conv_date": startDate})
	}
	if endDate != "" {
		builder = builder.Where(squirrel.LtOrEq{"cv.conv_date": endDate})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.DB.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	credits := make([]CreditRow, 0)
	for rows.Next() {
		var credit CreditRow
		if err := rows.Scan(&credit.ChannelName, &credit.Date, &credit.IHC, &credit.IHCRevenue); err != nil {
			return nil, fmt.Errorf("erro ao escanear créditos agregados: %w", err)
		}
		credits = append(credits, credit)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return credits, nil
}

func (r *channelReportRepository) ReplaceReport(ctx context.Context, reports []domain.ChannelReport) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		deleteQuery, deleteArgs, err := squirrel.
			Delete(channelReportingTable).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.Exec(deleteQuery, deleteArgs...); err != nil {
			return fmt.Errorf("erro ao limpar o relatório anterior: %w", err)
		}

		for _, report := range reports {
			if err := insertReport(tx, report); err != nil {
				return err
			}
		}

		return nil
	})
}

func insertReport(q postgres.Queryer, report domain.ChannelReport) error {
	query, args, err := squirrel.
		Insert(channelReportingTable).
		Columns("channel_name", "date", "cost", "ihc", "ihc_revenue", "cpo", "roas").
		Values(
			report.ChannelName,
			report.Date,
			report.Cost,
			report.IHC,
			report.IHCRevenue,
			nullableFloat(report.CPO),
			nullableFloat(report.ROAS),
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := q.Exec(query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao gravar relatório de %s/%s: %w", report.ChannelName, report.Date, err)
	}

	return nil
}

// nullableFloat converte *float64 em NULL quando o valor é indefinido
func nullableFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
