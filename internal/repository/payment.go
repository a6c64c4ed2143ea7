package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"debt-ledger/internal/domain"
)

type PaymentRepository struct {
	conn *Conn
}

func NewPaymentRepository(conn *Conn) *PaymentRepository {
	return &PaymentRepository{conn: conn}
}

const paymentColumns = `id, debtor_id, amount, payment_date, payment_method, notes, created_at`

func scanPayment(row interface{ Scan(...any) error }) (domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID,
		&p.DebtorID,
		&p.Amount,
		&p.PaymentDate,
		&p.PaymentMethod,
		&p.Notes,
		&p.CreatedAt,
	)
	return p, err
}

// listPayments returns payments with the latest payment date first, optionally
// only those of one debtor.
func listPayments(ctx context.Context, c *Conn, q queryer, debtorID *int64) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments`
	args := []any{}
	if debtorID != nil {
		query += ` WHERE debtor_id = $1`
		args = append(args, *debtorID)
	}
	query += ` ORDER BY payment_date DESC, id DESC`

	rows, err := c.query(ctx, q, query, args...)
	if err != nil {
		return nil, mapError("list payments", err)
	}
	defer rows.Close()

	out := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, mapError("scan payment", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list payments", err)
	}
	return out, nil
}

func (r *PaymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	return listPayments(ctx, r.conn, r.conn.db, nil)
}

func (r *PaymentRepository) ListByDebtor(ctx context.Context, debtorID int64) ([]domain.Payment, error) {
	return listPayments(ctx, r.conn, r.conn.db, &debtorID)
}

func (r *PaymentRepository) Get(ctx context.Context, id int64) (*domain.Payment, error) {
	row := r.conn.queryRow(ctx, r.conn.db, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment %d: %w", id, domain.ErrNotFound)
		}
		return nil, mapError("get payment", err)
	}
	return &p, nil
}

func (r *PaymentRepository) Create(ctx context.Context, in domain.PaymentInput) (int64, error) {
	method := in.PaymentMethod
	if method == "" {
		method = domain.MethodBankTransfer
	}

	query := `
		INSERT INTO payments (debtor_id, amount, payment_date, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	err := r.conn.queryRow(ctx, r.conn.db, query,
		in.DebtorID,
		in.Amount,
		in.PaymentDate,
		method,
		in.Notes,
	).Scan(&id)
	if err != nil {
		return 0, mapError("create payment", err)
	}
	return id, nil
}

// Update replaces amount, date, method and notes. The owning debtor is left unchanged.
func (r *PaymentRepository) Update(ctx context.Context, id int64, in domain.PaymentInput) error {
	method := in.PaymentMethod
	if method == "" {
		method = domain.MethodBankTransfer
	}

	query := `
		UPDATE payments
		SET amount = $1, payment_date = $2, payment_method = $3, notes = $4
		WHERE id = $5`

	return r.conn.execAffecting(ctx, "update payment", "payment", id, query,
		in.Amount,
		in.PaymentDate,
		method,
		in.Notes,
		id,
	)
}

func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	return r.conn.execAffecting(ctx, "delete payment", "payment", id, `DELETE FROM payments WHERE id = $1`, id)
}
