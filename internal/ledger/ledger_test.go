package ledger

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debt-ledger/internal/domain"
)

func pay(debtorID, amount int64) domain.Payment {
	return domain.Payment{DebtorID: debtorID, Amount: amount}
}

func TestPaidAndRemaining_NoPayments(t *testing.T) {
	d := domain.Debtor{ID: 1, DebtAmount: 1_000_000}

	paid, remaining := PaidAndRemaining(d, nil)

	assert.Equal(t, int64(0), paid)
	assert.Equal(t, int64(1_000_000), remaining)
	assert.Equal(t, 0.0, RepaymentRate(d.DebtAmount, paid))
}

func TestPaidAndRemaining_Scenarios(t *testing.T) {
	d := domain.Debtor{ID: 1, DebtAmount: 1_000_000}

	payments := []domain.Payment{pay(1, 600_000)}
	paid, remaining := PaidAndRemaining(d, payments)
	assert.Equal(t, int64(600_000), paid)
	assert.Equal(t, int64(400_000), remaining)
	assert.InDelta(t, 60.0, RepaymentRate(d.DebtAmount, paid), 1e-9)

	payments = append(payments, pay(1, 400_000))
	paid, remaining = PaidAndRemaining(d, payments)
	assert.Equal(t, int64(1_000_000), paid)
	assert.Equal(t, int64(0), remaining)
	assert.InDelta(t, 100.0, RepaymentRate(d.DebtAmount, paid), 1e-9)
}

func TestPaidAndRemaining_IgnoresOtherDebtors(t *testing.T) {
	d := domain.Debtor{ID: 7, DebtAmount: 100}

	paid, remaining := PaidAndRemaining(d, []domain.Payment{pay(7, 30), pay(8, 50), pay(7, 20)})

	assert.Equal(t, int64(50), paid)
	assert.Equal(t, int64(50), remaining)
}

func TestPaidAndRemaining_Overpayment(t *testing.T) {
	d := domain.Debtor{ID: 1, DebtAmount: 500}

	paid, remaining := PaidAndRemaining(d, []domain.Payment{pay(1, 700)})

	assert.Equal(t, int64(700), paid)
	assert.Equal(t, int64(-200), remaining)
	assert.InDelta(t, 140.0, RepaymentRate(d.DebtAmount, paid), 1e-9)
	assert.Equal(t, 100.0, ProgressWidth(RepaymentRate(d.DebtAmount, paid)))
}

func TestPaidAndRemaining_NegativePaymentIsKept(t *testing.T) {
	d := domain.Debtor{ID: 1, DebtAmount: 1000}

	paid, remaining := PaidAndRemaining(d, []domain.Payment{pay(1, 300), pay(1, -100)})

	assert.Equal(t, int64(200), paid)
	assert.Equal(t, int64(800), remaining)
}

func TestRepaymentRate_ZeroDebt(t *testing.T) {
	assert.Equal(t, 0.0, RepaymentRate(0, 0))
	assert.Equal(t, 0.0, RepaymentRate(0, 5000))
	assert.Equal(t, 0.0, RepaymentRate(-10, 5000))
}

func TestProgressWidth(t *testing.T) {
	assert.Equal(t, 0.0, ProgressWidth(-12))
	assert.Equal(t, 42.5, ProgressWidth(42.5))
	assert.Equal(t, 100.0, ProgressWidth(250))
}

func TestPortfolioStats_TwoDebtors(t *testing.T) {
	debtors := []domain.Debtor{
		{ID: 1, DebtAmount: 1_000_000},
		{ID: 2, DebtAmount: 500_000},
	}
	payments := []domain.Payment{pay(1, 100_000), pay(1, 200_000), pay(2, 500_000)}

	st := PortfolioStats(debtors, payments, nil)

	assert.Equal(t, int64(2), st.TotalDebtors)
	assert.Equal(t, int64(1_500_000), st.TotalDebtAmount)
	assert.Equal(t, int64(800_000), st.TotalPaidAmount)
	assert.Equal(t, int64(700_000), st.RemainingAmount)
	assert.Equal(t, int64(0), st.ActiveProcedures)
}

func TestPortfolioStats_ActiveProcedures(t *testing.T) {
	debtors := []domain.Debtor{{ID: 1, DebtAmount: 10}}
	procs := []domain.EnforcementProcedure{
		{DebtorID: 1, Status: domain.StatusInProgress},
		{DebtorID: 1, Status: domain.StatusCompleted},
		{DebtorID: 1, Status: domain.StatusHalted},
	}

	st := PortfolioStats(debtors, nil, procs)

	assert.Equal(t, int64(1), st.ActiveProcedures)
	assert.Equal(t, 1, ActiveCount(procs))
}

func TestPortfolioStats_Empty(t *testing.T) {
	st := PortfolioStats(nil, nil, nil)

	assert.Equal(t, domain.PortfolioStats{}, st)
	assert.Equal(t, 0.0, PortfolioRate(st))
}

func TestPortfolioStats_OrderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	var debtors []domain.Debtor
	var payments []domain.Payment
	var procs []domain.EnforcementProcedure
	statuses := []domain.ProcedureStatus{domain.StatusInProgress, domain.StatusCompleted, domain.StatusHalted}
	for i := int64(1); i <= 20; i++ {
		debtors = append(debtors, domain.Debtor{ID: i, DebtAmount: r.Int63n(10_000_000) + 1})
		for j := 0; j < r.Intn(5); j++ {
			payments = append(payments, pay(i, r.Int63n(1_000_000)))
		}
		procs = append(procs, domain.EnforcementProcedure{DebtorID: i, Status: statuses[r.Intn(3)]})
	}

	want := PortfolioStats(debtors, payments, procs)
	for k := 0; k < 10; k++ {
		r.Shuffle(len(debtors), func(i, j int) { debtors[i], debtors[j] = debtors[j], debtors[i] })
		r.Shuffle(len(payments), func(i, j int) { payments[i], payments[j] = payments[j], payments[i] })
		r.Shuffle(len(procs), func(i, j int) { procs[i], procs[j] = procs[j], procs[i] })
		require.Equal(t, want, PortfolioStats(debtors, payments, procs))
	}
}

func TestAttachProcedures(t *testing.T) {
	debtors := []domain.DebtorSummary{
		{Debtor: domain.Debtor{ID: 2}},
		{Debtor: domain.Debtor{ID: 1}},
		{Debtor: domain.Debtor{ID: 3}},
	}
	procs := []domain.EnforcementProcedure{
		{ID: 30, DebtorID: 1},
		{ID: 20, DebtorID: 2},
		{ID: 10, DebtorID: 1},
	}

	out := AttachProcedures(debtors, procs)

	require.Len(t, out, 3)
	assert.Equal(t, int64(2), out[0].ID)
	require.Len(t, out[0].Procedures, 1)
	assert.Equal(t, int64(20), out[0].Procedures[0].ID)

	require.Len(t, out[1].Procedures, 2)
	assert.Equal(t, int64(30), out[1].Procedures[0].ID)
	assert.Equal(t, int64(10), out[1].Procedures[1].ID)

	assert.NotNil(t, out[2].Procedures)
	assert.Empty(t, out[2].Procedures)
}

func TestFormatWon(t *testing.T) {
	assert.Equal(t, "1,500,000원", FormatWon(1_500_000))
	assert.Equal(t, "0원", FormatWon(0))
	assert.Equal(t, "-200원", FormatWon(-200))
	assert.Equal(t, "60%", FormatRate(60))
}
