package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/attribution-pipeline/infrastructure/database/postgres"
)

const (
	conversionsTable = "conversions c"
)

// ConversionSessionRow é uma linha da junção conversão × sessão × custo, na
// ordem exigida pela montagem de jornadas (conv_id, timestamp da sessão,
// session_id como desempate). Linhas sem sessão (HasSession == false) vêm de
// conversões sem nenhuma sessão qualificada.
type ConversionSessionRow struct {
	ConvID   string
	UserID   string
	ConvDate string
	ConvTime string
	Revenue  float64

	HasSession            bool
	SessionID             string
	ChannelName           string
	EventDate             string
	EventTime             string
	HolderEngagement      bool
	CloserEngagement      bool
	ImpressionInteraction bool
	Cost                  float64
}

type JourneyRepository interface {
	// ListConversionSessions lê as sessões qualificadas de cada conversão no
	// intervalo (datas vazias = todo o histórico). Qualificada: mesmo user_id
	// e timestamp da sessão menor ou igual ao da conversão, sem limite
	// inferior de tempo.
	ListConversionSessions(startDate, endDate string) ([]ConversionSessionRow, error)
}

type journeyRepository struct {
	conn *postgres.Connection
}

func NewJourneyRepository(conn *postgres.Connection) JourneyRepository {
	return &journeyRepository{
		conn: conn,
	}
}

func (r *journeyRepository) ListConversionSessions(startDate, endDate string) ([]ConversionSessionRow, error) {
	builder := squirrel.
		Select(
			"c.conv_id", "c.user_id", "c.conv_date", "c.conv_time", "c.revenue",
			"s.session_id", "s.channel_name", "s.event_date", "s.event_time",
			"s.holder_engagement", "s.closer_engagement", "s.impression_interaction",
			"sc.cost",
		).
		From(conversionsTable).
		LeftJoin(`session_sources s ON s.user_id = c.user_id
			AND (s.event_date || ' ' || s.event_time) <= (c.conv_date || ' ' || c.conv_time)`).
		LeftJoin("session_costs sc ON sc.session_id = s.session_id").
		OrderBy("c.conv_id ASC", "s.event_date ASC", "s.event_time ASC", "s.session_id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if startDate != "" {
		builder = builder.Where(squirrel.GtOrEq{"c.conv_date": startDate})
	}
	if endDate != "" {
		builder = builder.Where(squirrel.LtOrEq{"c.conv_date": endDate})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.DB.Query(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	result := make([]ConversionSessionRow, 0)
	for rows.Next() {
		row, err := scanConversionSession(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear linha de jornada: %w", err)
		}
		result = append(result, *row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return result, nil
}

func scanConversionSession(rows *sql.Rows) (*ConversionSessionRow, error) {
	var (
		row                   ConversionSessionRow
		sessionID             sql.NullString
		channelName           sql.NullString
		eventDate             sql.NullString
		eventTime             sql.NullString
		holderEngagement      sql.NullBool
		closerEngagement      sql.NullBool
		impressionInteraction sql.NullBool
		cost                  sql.NullFloat64
	)

	err := rows.Scan(
		&row.ConvID,
		&row.UserID,
		&row.ConvDate,
		&row.ConvTime,
		&row.Revenue,
		&sessionID,
		&channelName,
		&eventDate,
		&eventTime,
		&holderEngagement,
		&closerEngagement,
		&impressionInteraction,
		&cost,
	)
	if err != nil {
		return nil, err
	}

	row.HasSession = sessionID.Valid
	row.SessionID = sessionID.String
	row.ChannelName = channelName.String
	row.EventDate = eventDate.String
	row.EventTime = eventTime.String
	row.HolderEngagement = holderEngagement.Bool
	row.CloserEngagement = closerEngagement.Bool
	row.ImpressionInteraction = impressionInteraction.Bool
	// Sessão sem registro de custo é orgânica: custo 0, não erro
	row.Cost = cost.Float64

	return &row, nil
}
