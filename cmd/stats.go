package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"debt-ledger/internal/ledger"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the portfolio dashboard figures",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer conn.DB().Close()

			st := newServices(conn).dashboard.GetDashboardStats(cmd.Context())

			labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
			rateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
			if st.RemainingAmount < 0 {
				rateStyle = rateStyle.Foreground(lipgloss.Color("3"))
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			rows := [][2]string{
				{"총 채무자 수", fmt.Sprintf("%d명", st.TotalDebtors)},
				{"총 채권액", ledger.FormatWon(st.TotalDebtAmount)},
				{"총 상환액", ledger.FormatWon(st.TotalPaidAmount)},
				{"잔여 채권액", ledger.FormatWon(st.RemainingAmount)},
				{"진행중 강제집행", fmt.Sprintf("%d건", st.ActiveProcedures)},
				{"전체 상환율", rateStyle.Render(ledger.FormatRate(ledger.PortfolioRate(st)))},
			}
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render(row[0]), row[1])
			}
			return w.Flush()
		},
	}
}
