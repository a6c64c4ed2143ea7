package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"debt-ledger/internal/domain"
)

type ProcedureRepository struct {
	conn *Conn
}

func NewProcedureRepository(conn *Conn) *ProcedureRepository {
	return &ProcedureRepository{conn: conn}
}

const procedureColumns = `id, debtor_id, procedure_type, case_number, application_date, status, notes, created_at, updated_at`

func scanProcedure(row interface{ Scan(...any) error }) (domain.EnforcementProcedure, error) {
	var p domain.EnforcementProcedure
	err := row.Scan(
		&p.ID,
		&p.DebtorID,
		&p.ProcedureType,
		&p.CaseNumber,
		&p.ApplicationDate,
		&p.Status,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// listProcedures returns procedures newest first, optionally only those of one debtor.
func listProcedures(ctx context.Context, c *Conn, q queryer, debtorID *int64) ([]domain.EnforcementProcedure, error) {
	query := `SELECT ` + procedureColumns + ` FROM enforcement_procedures`
	args := []any{}
	if debtorID != nil {
		query += ` WHERE debtor_id = $1`
		args = append(args, *debtorID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := c.query(ctx, q, query, args...)
	if err != nil {
		return nil, mapError("list procedures", err)
	}
	defer rows.Close()

	out := []domain.EnforcementProcedure{}
	for rows.Next() {
		p, err := scanProcedure(rows)
		if err != nil {
			return nil, mapError("scan procedure", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list procedures", err)
	}
	return out, nil
}

func (r *ProcedureRepository) List(ctx context.Context) ([]domain.EnforcementProcedure, error) {
	return listProcedures(ctx, r.conn, r.conn.db, nil)
}

func (r *ProcedureRepository) ListByDebtor(ctx context.Context, debtorID int64) ([]domain.EnforcementProcedure, error) {
	return listProcedures(ctx, r.conn, r.conn.db, &debtorID)
}

func (r *ProcedureRepository) Create(ctx context.Context, in domain.ProcedureInput) (int64, error) {
	status := in.Status
	if status == "" {
		status = domain.StatusInProgress
	}

	query := `
		INSERT INTO enforcement_procedures (debtor_id, procedure_type, case_number, application_date, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int64
	err := r.conn.queryRow(ctx, r.conn.db, query,
		in.DebtorID,
		in.ProcedureType,
		in.CaseNumber,
		in.ApplicationDate,
		status,
		in.Notes,
	).Scan(&id)
	if err != nil {
		return 0, mapError("create procedure", err)
	}
	return id, nil
}

// Update replaces the procedure's fields. The owning debtor is left unchanged.
func (r *ProcedureRepository) Update(ctx context.Context, id int64, in domain.ProcedureInput) error {
	status := in.Status
	if status == "" {
		status = domain.StatusInProgress
	}

	query := `
		UPDATE enforcement_procedures
		SET procedure_type = $1, case_number = $2, application_date = $3,
			status = $4, notes = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6`

	return r.conn.execAffecting(ctx, "update procedure", "procedure", id, query,
		in.ProcedureType,
		in.CaseNumber,
		in.ApplicationDate,
		status,
		in.Notes,
		id,
	)
}

func (r *ProcedureRepository) Delete(ctx context.Context, id int64) error {
	return r.conn.execAffecting(ctx, "delete procedure", "procedure", id,
		`DELETE FROM enforcement_procedures WHERE id = $1`, id)
}

func (r *ProcedureRepository) Get(ctx context.Context, id int64) (*domain.EnforcementProcedure, error) {
	row := r.conn.queryRow(ctx, r.conn.db, `SELECT `+procedureColumns+` FROM enforcement_procedures WHERE id = $1`, id)
	p, err := scanProcedure(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("procedure %d: %w", id, domain.ErrNotFound)
		}
		return nil, mapError("get procedure", err)
	}
	return &p, nil
}
