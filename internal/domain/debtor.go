package domain

import "time"

type Debtor struct {
	ID                 int64
	Name               string
	Phone              *string
	Address            *string
	DebtAmount         int64
	OriginalCaseNumber *string
	VictoryDate        *time.Time
	Notes              *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DebtorInput carries the replaceable fields of a debtor for create and update.
type DebtorInput struct {
	Name               string
	Phone              *string
	Address            *string
	DebtAmount         int64
	OriginalCaseNumber *string
	VictoryDate        *time.Time
	Notes              *string
}

// DebtorSummary is a debtor row with its derived amounts and procedures, as
// returned by the debtor list.
type DebtorSummary struct {
	Debtor

	PaidAmount      int64
	RemainingAmount int64

	Procedures []EnforcementProcedure
}

// DebtorDetail is a single debtor with procedures and payments.
type DebtorDetail struct {
	DebtorSummary

	Payments []Payment
}
