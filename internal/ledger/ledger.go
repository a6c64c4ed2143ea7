// Package ledger turns raw debtor, procedure and payment rows into the derived
// figures every view reads: paid and remaining amounts, repayment rate and the
// portfolio totals. All functions are pure and use integer arithmetic.
package ledger

import "debt-ledger/internal/domain"

// PaidAndRemaining sums the payments that belong to debtor. Payments owned by
// other debtors are ignored, so callers may pass an unfiltered slice.
func PaidAndRemaining(debtor domain.Debtor, payments []domain.Payment) (paid, remaining int64) {
	for _, p := range payments {
		if p.DebtorID != debtor.ID {
			continue
		}
		paid += p.Amount
	}
	return paid, debtor.DebtAmount - paid
}

// RepaymentRate is paid as a percentage of debt. It is 0 when debt is not
// positive and is not clamped above 100.
func RepaymentRate(debt, paid int64) float64 {
	if debt <= 0 {
		return 0
	}
	return float64(paid) / float64(debt) * 100
}

// ProgressWidth clamps a repayment rate to [0,100] for progress bars.
func ProgressWidth(rate float64) float64 {
	switch {
	case rate < 0:
		return 0
	case rate > 100:
		return 100
	}
	return rate
}

// PortfolioStats computes the dashboard totals from full collections. The
// result does not depend on the order of the inputs.
func PortfolioStats(debtors []domain.Debtor, payments []domain.Payment, procedures []domain.EnforcementProcedure) domain.PortfolioStats {
	var st domain.PortfolioStats
	st.TotalDebtors = int64(len(debtors))
	for _, d := range debtors {
		st.TotalDebtAmount += d.DebtAmount
	}
	for _, p := range payments {
		st.TotalPaidAmount += p.Amount
	}
	for _, pr := range procedures {
		if pr.Status == domain.StatusInProgress {
			st.ActiveProcedures++
		}
	}
	st.RemainingAmount = st.TotalDebtAmount - st.TotalPaidAmount
	return st
}

// PortfolioRate is the repayment rate of the whole portfolio.
func PortfolioRate(st domain.PortfolioStats) float64 {
	return RepaymentRate(st.TotalDebtAmount, st.TotalPaidAmount)
}

// AttachProcedures pairs each debtor with the procedures it owns, keeping the
// order in which procedures were given. Debtors without procedures get an empty,
// non-nil slice.
func AttachProcedures(debtors []domain.DebtorSummary, procedures []domain.EnforcementProcedure) []domain.DebtorSummary {
	byDebtor := make(map[int64][]domain.EnforcementProcedure, len(debtors))
	for _, pr := range procedures {
		byDebtor[pr.DebtorID] = append(byDebtor[pr.DebtorID], pr)
	}

	out := make([]domain.DebtorSummary, len(debtors))
	for i, d := range debtors {
		procs := byDebtor[d.ID]
		if procs == nil {
			procs = []domain.EnforcementProcedure{}
		}
		d.Procedures = procs
		out[i] = d
	}
	return out
}

// Summarize builds a DebtorSummary from a debtor and its payments.
func Summarize(debtor domain.Debtor, payments []domain.Payment) domain.DebtorSummary {
	paid, remaining := PaidAndRemaining(debtor, payments)
	return domain.DebtorSummary{
		Debtor:          debtor,
		PaidAmount:      paid,
		RemainingAmount: remaining,
		Procedures:      []domain.EnforcementProcedure{},
	}
}

// ActiveCount counts in-progress procedures.
func ActiveCount(procedures []domain.EnforcementProcedure) int {
	n := 0
	for _, pr := range procedures {
		if pr.Status == domain.StatusInProgress {
			n++
		}
	}
	return n
}
