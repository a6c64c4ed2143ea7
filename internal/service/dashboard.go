package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"debt-ledger/internal/domain"
)

type StatsRepository interface {
	CountDebtors(ctx context.Context) (int64, error)
	SumDebtAmount(ctx context.Context) (int64, error)
	SumPaidAmount(ctx context.Context) (int64, error)
	CountActiveProcedures(ctx context.Context) (int64, error)
}

type DashboardService struct {
	stats StatsRepository
}

func NewDashboardService(stats StatsRepository) *DashboardService {
	return &DashboardService{stats: stats}
}

// GetDashboardStats runs the four metric queries concurrently and waits for all
// of them. A metric whose query fails is logged and reported as 0; it never
// fails the other metrics or the call.
func (s *DashboardService) GetDashboardStats(ctx context.Context) domain.PortfolioStats {
	var st domain.PortfolioStats

	metrics := []struct {
		name  string
		query func(context.Context) (int64, error)
		dst   *int64
	}{
		{"totalDebtors", s.stats.CountDebtors, &st.TotalDebtors},
		{"totalDebtAmount", s.stats.SumDebtAmount, &st.TotalDebtAmount},
		{"totalPaidAmount", s.stats.SumPaidAmount, &st.TotalPaidAmount},
		{"activeProcedures", s.stats.CountActiveProcedures, &st.ActiveProcedures},
	}

	// plain Group: one failing metric must not cancel the others
	var g errgroup.Group
	for _, m := range metrics {
		g.Go(func() error {
			v, err := m.query(ctx)
			if err != nil {
				slog.WarnContext(ctx, "dashboard metric failed", "metric", m.name, "error", err)
				v = 0
			}
			*m.dst = v
			return nil
		})
	}
	_ = g.Wait()

	st.RemainingAmount = st.TotalDebtAmount - st.TotalPaidAmount
	return st
}
