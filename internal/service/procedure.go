package service

import (
	"context"

	"debt-ledger/internal/domain"
)

type ProcedureRepository interface {
	List(ctx context.Context) ([]domain.EnforcementProcedure, error)
	ListByDebtor(ctx context.Context, debtorID int64) ([]domain.EnforcementProcedure, error)
	Get(ctx context.Context, id int64) (*domain.EnforcementProcedure, error)
	Create(ctx context.Context, in domain.ProcedureInput) (int64, error)
	Update(ctx context.Context, id int64, in domain.ProcedureInput) error
	Delete(ctx context.Context, id int64) error
}

type procedureRules struct {
	DebtorID      int64  `validate:"gt=0"`
	ProcedureType string `validate:"required,oneof=통장압류 재산명시 급여압류"`
	CaseNumber    string `validate:"required"`
	Status        string `validate:"omitempty,oneof=진행중 완료 중단"`
}

func procedureRulesOf(in domain.ProcedureInput) procedureRules {
	return procedureRules{
		DebtorID:      in.DebtorID,
		ProcedureType: string(in.ProcedureType),
		CaseNumber:    in.CaseNumber,
		Status:        string(in.Status),
	}
}

type ProcedureService struct {
	repo ProcedureRepository
}

func NewProcedureService(repo ProcedureRepository) *ProcedureService {
	return &ProcedureService{repo: repo}
}

// ListProcedures returns all procedures, or one debtor's when debtorID is set.
func (s *ProcedureService) ListProcedures(ctx context.Context, debtorID *int64) ([]domain.EnforcementProcedure, error) {
	if debtorID != nil {
		return s.repo.ListByDebtor(ctx, *debtorID)
	}
	return s.repo.List(ctx)
}

func (s *ProcedureService) GetProcedure(ctx context.Context, id int64) (*domain.EnforcementProcedure, error) {
	return s.repo.Get(ctx, id)
}

// CreateProcedure records a procedure for an existing debtor. An empty status
// means in progress.
func (s *ProcedureService) CreateProcedure(ctx context.Context, in domain.ProcedureInput) (int64, error) {
	if err := checkInput(procedureRulesOf(in)); err != nil {
		return 0, err
	}
	if in.Status == "" {
		in.Status = domain.StatusInProgress
	}
	return s.repo.Create(ctx, in)
}

// UpdateProcedure replaces the procedure's fields. Any status may follow any other.
func (s *ProcedureService) UpdateProcedure(ctx context.Context, id int64, in domain.ProcedureInput) error {
	if err := checkInput(procedureRulesOf(in), "DebtorID"); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *ProcedureService) DeleteProcedure(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
