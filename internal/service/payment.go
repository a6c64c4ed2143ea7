package service

import (
	"context"
	"time"

	"debt-ledger/internal/domain"
)

type PaymentRepository interface {
	List(ctx context.Context) ([]domain.Payment, error)
	ListByDebtor(ctx context.Context, debtorID int64) ([]domain.Payment, error)
	Get(ctx context.Context, id int64) (*domain.Payment, error)
	Create(ctx context.Context, in domain.PaymentInput) (int64, error)
	Update(ctx context.Context, id int64, in domain.PaymentInput) error
	Delete(ctx context.Context, id int64) error
}

// paymentRules leaves the amount unchecked: any integer, including zero or a
// negative correction, is stored as given.
type paymentRules struct {
	DebtorID      int64     `validate:"gt=0"`
	PaymentDate   time.Time `validate:"required"`
	PaymentMethod string    `validate:"omitempty,oneof=계좌입금 현금 수표 강제집행 기타"`
}

func paymentRulesOf(in domain.PaymentInput) paymentRules {
	return paymentRules{
		DebtorID:      in.DebtorID,
		PaymentDate:   in.PaymentDate,
		PaymentMethod: string(in.PaymentMethod),
	}
}

type PaymentService struct {
	repo PaymentRepository
}

func NewPaymentService(repo PaymentRepository) *PaymentService {
	return &PaymentService{repo: repo}
}

// ListPayments returns payments by latest payment date, optionally for one debtor.
func (s *PaymentService) ListPayments(ctx context.Context, debtorID *int64) ([]domain.Payment, error) {
	if debtorID != nil {
		return s.repo.ListByDebtor(ctx, *debtorID)
	}
	return s.repo.List(ctx)
}

func (s *PaymentService) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	return s.repo.Get(ctx, id)
}

func (s *PaymentService) CreatePayment(ctx context.Context, in domain.PaymentInput) (int64, error) {
	if err := checkInput(paymentRulesOf(in)); err != nil {
		return 0, err
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = domain.MethodBankTransfer
	}
	return s.repo.Create(ctx, in)
}

func (s *PaymentService) UpdatePayment(ctx context.Context, id int64, in domain.PaymentInput) error {
	if err := checkInput(paymentRulesOf(in), "DebtorID"); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *PaymentService) DeletePayment(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
