package domain

import "time"

type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "계좌입금"
	MethodCash         PaymentMethod = "현금"
	MethodCheck        PaymentMethod = "수표"
	MethodEnforcement  PaymentMethod = "강제집행"
	MethodOther        PaymentMethod = "기타"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodBankTransfer, MethodCash, MethodCheck, MethodEnforcement, MethodOther:
		return true
	}
	return false
}

type Payment struct {
	ID            int64
	DebtorID      int64
	Amount        int64
	PaymentDate   time.Time
	PaymentMethod *PaymentMethod
	Notes         *string

	CreatedAt time.Time
}

// PaymentInput is the writable part of a payment. DebtorID is only read on create.
type PaymentInput struct {
	DebtorID      int64
	Amount        int64
	PaymentDate   time.Time
	PaymentMethod PaymentMethod
	Notes         *string
}
