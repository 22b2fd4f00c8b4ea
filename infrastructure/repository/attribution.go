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

const attributionTable = "attribution_customer_journey"

type AttributionRepository interface {
	// SaveOrUpdateBatch grava os créditos de um lote com upsert por
	// (conv_id, session_id), o que torna reexecuções idempotentes
	SaveOrUpdateBatch(ctx context.Context, results []domain.AttributionResult) error
}

type attributionRepository struct {
	conn *postgres.Connection
}

func NewAttributionRepository(conn *postgres.Connection) AttributionRepository {
	return &attributionRepository{
		conn: conn,
	}
}

func (r *attributionRepository) SaveOrUpdateBatch(ctx context.Context, results []domain.AttributionResult) error {
	if len(results) == 0 {
		return nil
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, result := range results {
			if err := upsertCredit(tx, result); err != nil {
				return err
			}
		}

		return nil
	})
}

func upsertCredit(q postgres.Queryer, result domain.AttributionResult) error {
	query, args, err := squirrel.
		Insert(attributionTable).
		Columns("conv_id", "session_id", "ihc").
		Values(result.ConvID, result.SessionID, result.IHC).
		Suffix(`
			ON CONFLICT (conv_id, session_id) DO UPDATE SET
				ihc = EXCLUDED.ihc
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := q.Exec(query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao gravar crédito (%s, %s): %w", result.ConvID, result.SessionID, err)
	}

	return nil
}
