package repository

import (
	"context"

	"debt-ledger/internal/domain"
)

// StatsRepository answers the single-value aggregate queries behind the dashboard.
type StatsRepository struct {
	conn *Conn
}

func NewStatsRepository(conn *Conn) *StatsRepository {
	return &StatsRepository{conn: conn}
}

func (r *StatsRepository) scalar(ctx context.Context, op, query string, args ...any) (int64, error) {
	var v int64
	if err := r.conn.queryRow(ctx, r.conn.db, query, args...).Scan(&v); err != nil {
		return 0, &domain.StoreError{Op: op, Err: err}
	}
	return v, nil
}

func (r *StatsRepository) CountDebtors(ctx context.Context) (int64, error) {
	return r.scalar(ctx, "count debtors", `SELECT COUNT(*) FROM debtors`)
}

func (r *StatsRepository) SumDebtAmount(ctx context.Context) (int64, error) {
	return r.scalar(ctx, "sum debt", `SELECT CAST(COALESCE(SUM(debt_amount), 0) AS BIGINT) FROM debtors`)
}

func (r *StatsRepository) SumPaidAmount(ctx context.Context) (int64, error) {
	return r.scalar(ctx, "sum payments", `SELECT CAST(COALESCE(SUM(amount), 0) AS BIGINT) FROM payments`)
}

func (r *StatsRepository) CountActiveProcedures(ctx context.Context) (int64, error) {
	return r.scalar(ctx, "count active procedures",
		`SELECT COUNT(*) FROM enforcement_procedures WHERE status = $1`, domain.StatusInProgress)
}
