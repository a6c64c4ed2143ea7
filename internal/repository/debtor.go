package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"debt-ledger/internal/domain"
)

const debtorSummarySelect = `
	SELECT
		d.id,
		d.name,
		d.phone,
		d.address,
		d.debt_amount,
		d.original_case_number,
		d.victory_date,
		d.notes,
		d.created_at,
		d.updated_at,
		CAST(COALESCE(SUM(p.amount), 0) AS BIGINT) AS paid_amount
	FROM debtors d
	LEFT JOIN payments p ON p.debtor_id = d.id
`

type DebtorRepository struct {
	conn *Conn
}

func NewDebtorRepository(conn *Conn) *DebtorRepository {
	return &DebtorRepository{conn: conn}
}

func scanDebtorSummary(rows interface{ Scan(...any) error }) (domain.DebtorSummary, error) {
	var d domain.DebtorSummary
	err := rows.Scan(
		&d.ID,
		&d.Name,
		&d.Phone,
		&d.Address,
		&d.DebtAmount,
		&d.OriginalCaseNumber,
		&d.VictoryDate,
		&d.Notes,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.PaidAmount,
	)
	d.RemainingAmount = d.DebtAmount - d.PaidAmount
	return d, err
}

// ListSummaries returns every debtor with its paid and remaining amounts,
// newest first. Procedures are not attached.
func (r *DebtorRepository) ListSummaries(ctx context.Context) ([]domain.DebtorSummary, error) {
	query := debtorSummarySelect + `
	GROUP BY d.id
	ORDER BY d.created_at DESC, d.id DESC`

	rows, err := r.conn.query(ctx, r.conn.db, query)
	if err != nil {
		return nil, mapError("list debtors", err)
	}
	defer rows.Close()

	out := []domain.DebtorSummary{}
	for rows.Next() {
		d, err := scanDebtorSummary(rows)
		if err != nil {
			return nil, mapError("scan debtor", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list debtors", err)
	}
	return out, nil
}

func (r *DebtorRepository) getSummary(ctx context.Context, q queryer, id int64) (domain.DebtorSummary, error) {
	query := debtorSummarySelect + `
	WHERE d.id = $1
	GROUP BY d.id`

	d, err := scanDebtorSummary(r.conn.queryRow(ctx, q, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DebtorSummary{}, fmt.Errorf("debtor %d: %w", id, domain.ErrNotFound)
		}
		return domain.DebtorSummary{}, mapError("get debtor", err)
	}
	return d, nil
}

// GetDetail loads a debtor, its procedures (newest first) and payments (latest
// payment date first) inside one read-only transaction so the three reads see
// the same data.
func (r *DebtorRepository) GetDetail(ctx context.Context, id int64) (*domain.DebtorDetail, error) {
	tx, err := r.conn.db.BeginTx(ctx, r.conn.snapshotOptions())
	if err != nil {
		return nil, &domain.StoreError{Op: "begin snapshot", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	summary, err := r.getSummary(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	procedures, err := listProcedures(ctx, r.conn, tx, &id)
	if err != nil {
		return nil, err
	}
	summary.Procedures = procedures

	payments, err := listPayments(ctx, r.conn, tx, &id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, &domain.StoreError{Op: "commit snapshot", Err: err}
	}

	return &domain.DebtorDetail{DebtorSummary: summary, Payments: payments}, nil
}

func (r *DebtorRepository) Create(ctx context.Context, in domain.DebtorInput) (int64, error) {
	query := `
		INSERT INTO debtors (name, phone, address, debt_amount, original_case_number, victory_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err := r.conn.queryRow(ctx, r.conn.db, query,
		in.Name,
		in.Phone,
		in.Address,
		in.DebtAmount,
		in.OriginalCaseNumber,
		in.VictoryDate,
		in.Notes,
	).Scan(&id)
	if err != nil {
		return 0, mapError("create debtor", err)
	}
	return id, nil
}

// Update replaces every writable field of the debtor.
func (r *DebtorRepository) Update(ctx context.Context, id int64, in domain.DebtorInput) error {
	query := `
		UPDATE debtors
		SET name = $1, phone = $2, address = $3, debt_amount = $4,
			original_case_number = $5, victory_date = $6, notes = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $8`

	return r.conn.execAffecting(ctx, "update debtor", "debtor", id, query,
		in.Name,
		in.Phone,
		in.Address,
		in.DebtAmount,
		in.OriginalCaseNumber,
		in.VictoryDate,
		in.Notes,
		id,
	)
}

// Delete removes the debtor; its procedures and payments go with it through
// ON DELETE CASCADE.
func (r *DebtorRepository) Delete(ctx context.Context, id int64) error {
	return r.conn.execAffecting(ctx, "delete debtor", "debtor", id, `DELETE FROM debtors WHERE id = $1`, id)
}
