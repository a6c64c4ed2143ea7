package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"debt-ledger/internal/config"
)

var (
	cfg     config.AppConfig
	envFile string

	rootCmd = &cobra.Command{
		Use:   "ledger",
		Short: "Debtor, enforcement procedure and repayment ledger",
		Long: `ledger tracks debtors, their court-enforcement procedures and repayments,
and serves the REST API and dashboard the office uses to follow them.

Run without a subcommand to start the HTTP server.`,
		PersistentPreRunE: initConfig,
		RunE:              runServe,
		SilenceUsage:      true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file read before the environment")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(reportCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	found, err := config.LoadDotEnv(envFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	cfg, err = config.Load(config.New())
	if err != nil {
		return err
	}

	if err := config.SetupLogger(os.Stderr, cfg.Log); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	if !found {
		slog.Debug("no .env file found, using system env or defaults", "file", envFile)
	}
	return nil
}
