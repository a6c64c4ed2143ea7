package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"debt-ledger/internal/service"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the debtor ledger workbook to a file",
		Long: `Build the same workbook as POST /api/exports/debtors (debtors, payments and
a portfolio summary) and write it to --out without going through the server.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString("out")

			conn, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer conn.DB().Close()

			svc := newServices(conn)
			exports := service.NewExportService(svc.debtors, svc.paymentRepo, nil, nil, nil)

			bar := progressbar.NewOptions(100,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("[cyan][bold]Writing ledger...[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}),
			)

			data, err := exports.BuildWorkbook(cmd.Context(), func(p float64) {
				if err := bar.Set(int(p)); err != nil {
					slog.Warn("failed to update progress bar", "error", err)
				}
			})
			if err != nil {
				return fmt.Errorf("build workbook: %w", err)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			_ = bar.Finish()

			slog.Info("ledger workbook written", "file", out, "bytes", len(data))
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "ledger.xlsx", "output file")
	return cmd
}
