package main

import (
	"context"
	"fmt"
	"log/slog"

	"debt-ledger/internal/config"
	"debt-ledger/internal/repository"
	"debt-ledger/internal/service"
	"debt-ledger/pkg/database/postgres"
	"debt-ledger/pkg/database/sqlite"
)

// openStore connects to the configured database and applies the schema.
func openStore(ctx context.Context, cfg config.AppConfig) (*repository.Conn, error) {
	var conn *repository.Conn

	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := postgres.NewPostgresConnection(ctx, postgres.ConnectionInfo{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Username: cfg.Postgres.User,
			DBName:   cfg.Postgres.DBName,
			SSLMode:  cfg.Postgres.SSLMode,
			Password: cfg.Postgres.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres init error: %w", err)
		}
		conn = repository.NewConn(db, repository.Postgres)
		slog.Info("connected to postgres", "host", cfg.Postgres.Host, "db", cfg.Postgres.DBName)
	default:
		db, err := sqlite.NewSQLiteConnection(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite init error: %w", err)
		}
		conn = repository.NewConn(db, repository.SQLite)
		slog.Info("connected to sqlite", "path", cfg.SQLitePath)
	}

	if err := repository.Migrate(ctx, conn); err != nil {
		_ = conn.DB().Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return conn, nil
}

// services groups the domain services built on one connection.
type services struct {
	paymentRepo *repository.PaymentRepository

	debtors    *service.DebtorService
	procedures *service.ProcedureService
	payments   *service.PaymentService
	dashboard  *service.DashboardService
}

func newServices(conn *repository.Conn) *services {
	procRepo := repository.NewProcedureRepository(conn)
	payRepo := repository.NewPaymentRepository(conn)

	return &services{
		paymentRepo: payRepo,
		debtors:     service.NewDebtorService(repository.NewDebtorRepository(conn), procRepo),
		procedures:  service.NewProcedureService(procRepo),
		payments:    service.NewPaymentService(payRepo),
		dashboard:   service.NewDashboardService(repository.NewStatsRepository(conn)),
	}
}
