package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"debt-ledger/internal/domain"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Conn is a database handle shared by the repositories. Queries are written
// with Postgres placeholders ($1, $2, ...) and rewritten for SQLite.
type Conn struct {
	db      *sql.DB
	dialect Dialect
}

func NewConn(db *sql.DB, dialect Dialect) *Conn {
	return &Conn{db: db, dialect: dialect}
}

func (c *Conn) DB() *sql.DB {
	return c.db
}

func (c *Conn) Dialect() Dialect {
	return c.dialect
}

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

func (c *Conn) rebind(query string) string {
	if c.dialect != SQLite {
		return query
	}
	return placeholderRe.ReplaceAllString(query, "?$1")
}

// snapshotOptions returns the options for a read-only transaction that sees one
// consistent snapshot across several statements.
func (c *Conn) snapshotOptions() *sql.TxOptions {
	if c.dialect == Postgres {
		return &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}
	}
	// a SQLite read transaction already reads from one snapshot
	return nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (c *Conn) query(ctx context.Context, q queryer, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, c.rebind(query), args...)
}

func (c *Conn) queryRow(ctx context.Context, q queryer, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, c.rebind(query), args...)
}

func (c *Conn) exec(ctx context.Context, q queryer, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, c.rebind(query), args...)
}

// execAffecting runs a statement that must touch a row; zero rows affected is
// reported as not found.
func (c *Conn) execAffecting(ctx context.Context, op, entity string, id int64, query string, args ...any) error {
	res, err := c.exec(ctx, c.db, query, args...)
	if err != nil {
		return mapError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &domain.StoreError{Op: op, Err: err}
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}

// mapError translates driver errors into the domain taxonomy. Foreign key
// violations only happen when a procedure or payment names a missing debtor.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return fmt.Errorf("debtor: %w", domain.ErrNotFound)
		case "23514", "23502":
			return &domain.ValidationError{Field: pgErr.ColumnName, Message: pgErr.Message}
		}
		return &domain.StoreError{Op: op, Err: err}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("debtor: %w", domain.ErrNotFound)
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return &domain.ValidationError{Message: liteErr.Error()}
		}
	}

	return &domain.StoreError{Op: op, Err: err}
}
