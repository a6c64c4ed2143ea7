package repository

import (
	"context"
	"fmt"
	"log/slog"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS debtors (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL CHECK (name <> ''),
		phone TEXT,
		address TEXT,
		debt_amount BIGINT NOT NULL CHECK (debt_amount > 0),
		original_case_number TEXT,
		victory_date DATE,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS enforcement_procedures (
		id BIGSERIAL PRIMARY KEY,
		debtor_id BIGINT NOT NULL REFERENCES debtors (id) ON DELETE CASCADE,
		procedure_type TEXT NOT NULL CHECK (procedure_type IN ('통장압류', '재산명시', '급여압류')),
		case_number TEXT NOT NULL,
		application_date DATE,
		status TEXT NOT NULL DEFAULT '진행중' CHECK (status IN ('진행중', '완료', '중단')),
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id BIGSERIAL PRIMARY KEY,
		debtor_id BIGINT NOT NULL REFERENCES debtors (id) ON DELETE CASCADE,
		amount BIGINT NOT NULL,
		payment_date DATE NOT NULL,
		payment_method TEXT,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_procedures_debtor ON enforcement_procedures (debtor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_debtor ON payments (debtor_id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS debtors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL CHECK (name <> ''),
		phone TEXT,
		address TEXT,
		debt_amount INTEGER NOT NULL CHECK (debt_amount > 0),
		original_case_number TEXT,
		victory_date DATE,
		notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS enforcement_procedures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		debtor_id INTEGER NOT NULL REFERENCES debtors (id) ON DELETE CASCADE,
		procedure_type TEXT NOT NULL CHECK (procedure_type IN ('통장압류', '재산명시', '급여압류')),
		case_number TEXT NOT NULL,
		application_date DATE,
		status TEXT NOT NULL DEFAULT '진행중' CHECK (status IN ('진행중', '완료', '중단')),
		notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		debtor_id INTEGER NOT NULL REFERENCES debtors (id) ON DELETE CASCADE,
		amount INTEGER NOT NULL,
		payment_date DATE NOT NULL,
		payment_method TEXT,
		notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_procedures_debtor ON enforcement_procedures (debtor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_debtor ON payments (debtor_id)`,
}

// Migrate creates the three tables if they are missing. It is safe to run on
// every start.
func Migrate(ctx context.Context, c *Conn) error {
	stmts := sqliteSchema
	if c.dialect == Postgres {
		stmts = postgresSchema
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	slog.Debug("schema ready", "dialect", string(c.dialect))
	return nil
}
