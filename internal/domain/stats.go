package domain

// PortfolioStats are the dashboard totals across all debtors.
type PortfolioStats struct {
	TotalDebtors     int64
	TotalDebtAmount  int64
	TotalPaidAmount  int64
	RemainingAmount  int64
	ActiveProcedures int64
}
