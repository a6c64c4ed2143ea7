package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"debt-ledger/internal/clients"
	"debt-ledger/internal/config"
	"debt-ledger/internal/service"
	"debt-ledger/internal/transport/rest"
	"debt-ledger/internal/transport/websocket"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	// canceled on SIGINT/SIGTERM
	ctx := cmd.Context()

	conn, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.DB().Close()

	statuses, closeStatuses, err := newStatusStore(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeStatuses()

	storageClient, err := clients.NewLocalStorage(cfg.ExportDir, cfg.FilesPublicPrefix, cfg.ExternalURL)
	if err != nil {
		return fmt.Errorf("storage init error: %w", err)
	}

	var files service.FileStorage = storageClient
	var localFiles rest.FileStore = storageClient
	if cfg.S3.Enabled {
		s3Client, err := clients.NewS3Client(ctx, clients.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			UseSSL:          cfg.S3.UseSSL,
			Region:          cfg.S3.Region,
			Prefix:          cfg.S3.Prefix,
			URLTTL:          time.Duration(cfg.S3.URLTTLMinutes) * time.Minute,
		})
		if err != nil {
			return fmt.Errorf("s3 init error: %w", err)
		}
		files = s3Client
		localFiles = nil
		slog.Info("exports stored in s3", "endpoint", cfg.S3.Endpoint, "bucket", cfg.S3.Bucket)
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	wsHub := websocket.NewHub()
	go wsHub.Run(hubCtx)
	wsClient := clients.NewWebSocketClient(wsHub)

	svc := newServices(conn)
	exportSvc := service.NewExportService(svc.debtors, svc.paymentRepo, statuses, files, wsClient)

	handler := rest.NewHandler(svc.debtors, svc.procedures, svc.payments, svc.dashboard, exportSvc)
	router := handler.InitRouterWith(rest.RouterOptions{
		Files:       localFiles,
		FilesPrefix: cfg.FilesPublicPrefix,
		WebSocket:   wsHub.ServeHTTP,
		StaticDir:   cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", srv.Addr, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
			return
		}
		srvErr <- nil
	}()

	if localFiles != nil {
		go sweepExports(hubCtx, storageClient, cfg.ExportRetention)
	}

	select {
	case err := <-srvErr:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
	stopHub()

	slog.Info("shutdown complete")
	return nil
}

// newStatusStore picks redis when enabled and an in-process store otherwise.
func newStatusStore(ctx context.Context, rc config.RedisConfig) (service.StatusStore, func(), error) {
	if !rc.Enabled {
		return service.NewMemoryStatusStore(), func() {}, nil
	}

	client, err := clients.NewRedisClient(ctx, clients.RedisConfig{
		Addr:        rc.Addr,
		Password:    rc.Password,
		DB:          rc.DB,
		MaxRetries:  rc.MaxRetries,
		DialTimeout: time.Duration(rc.DialTimeout) * time.Second,
		Timeout:     time.Duration(rc.Timeout) * time.Second,
		Prefix:      rc.Prefix,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("redis init error: %w", err)
	}
	slog.Info("export statuses stored in redis", "addr", rc.Addr)
	return service.NewRedisStatusStore(client), client.Close, nil
}

// sweepExports deletes generated files older than retention until ctx ends.
func sweepExports(ctx context.Context, storage *clients.StorageClient, retention time.Duration) {
	interval := retention / 6
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := storage.CleanupOlderThan(retention); err != nil {
				slog.Warn("storage cleanup error", "error", err)
			}
		}
	}
}
