package service

import (
	"context"

	"debt-ledger/internal/domain"
	"debt-ledger/internal/ledger"
)

type DebtorRepository interface {
	ListSummaries(ctx context.Context) ([]domain.DebtorSummary, error)
	GetDetail(ctx context.Context, id int64) (*domain.DebtorDetail, error)
	Create(ctx context.Context, in domain.DebtorInput) (int64, error)
	Update(ctx context.Context, id int64, in domain.DebtorInput) error
	Delete(ctx context.Context, id int64) error
}

type ProcedureLister interface {
	List(ctx context.Context) ([]domain.EnforcementProcedure, error)
}

// debtorRules are the boundary checks for debtor writes.
type debtorRules struct {
	Name       string `validate:"required"`
	DebtAmount int64  `validate:"gt=0"`
}

type DebtorService struct {
	debtors    DebtorRepository
	procedures ProcedureLister
}

func NewDebtorService(debtors DebtorRepository, procedures ProcedureLister) *DebtorService {
	return &DebtorService{debtors: debtors, procedures: procedures}
}

// ListDebtors returns every debtor, newest first, with paid/remaining amounts
// and its procedures attached. Any store failure fails the whole list.
func (s *DebtorService) ListDebtors(ctx context.Context) ([]domain.DebtorSummary, error) {
	summaries, err := s.debtors.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	procedures, err := s.procedures.List(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.AttachProcedures(summaries, procedures), nil
}

func (s *DebtorService) GetDebtor(ctx context.Context, id int64) (*domain.DebtorDetail, error) {
	return s.debtors.GetDetail(ctx, id)
}

func (s *DebtorService) CreateDebtor(ctx context.Context, in domain.DebtorInput) (int64, error) {
	if err := checkInput(debtorRules{Name: in.Name, DebtAmount: in.DebtAmount}); err != nil {
		return 0, err
	}
	return s.debtors.Create(ctx, in)
}

func (s *DebtorService) UpdateDebtor(ctx context.Context, id int64, in domain.DebtorInput) error {
	if err := checkInput(debtorRules{Name: in.Name, DebtAmount: in.DebtAmount}); err != nil {
		return err
	}
	return s.debtors.Update(ctx, id, in)
}

func (s *DebtorService) DeleteDebtor(ctx context.Context, id int64) error {
	return s.debtors.Delete(ctx, id)
}
