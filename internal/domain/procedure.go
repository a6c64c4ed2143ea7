package domain

import "time"

type ProcedureType string

const (
	ProcedureBankAccountSeizure ProcedureType = "통장압류"
	ProcedurePropertyDisclosure ProcedureType = "재산명시"
	ProcedureWageGarnishment    ProcedureType = "급여압류"
)

func (t ProcedureType) Valid() bool {
	switch t {
	case ProcedureBankAccountSeizure, ProcedurePropertyDisclosure, ProcedureWageGarnishment:
		return true
	}
	return false
}

type ProcedureStatus string

const (
	StatusInProgress ProcedureStatus = "진행중"
	StatusCompleted  ProcedureStatus = "완료"
	StatusHalted     ProcedureStatus = "중단"
)

func (s ProcedureStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusHalted:
		return true
	}
	return false
}

type EnforcementProcedure struct {
	ID              int64
	DebtorID        int64
	ProcedureType   ProcedureType
	CaseNumber      string
	ApplicationDate *time.Time
	Status          ProcedureStatus
	Notes           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProcedureInput is the writable part of a procedure. DebtorID is only read on
// create; a procedure never moves to another debtor.
type ProcedureInput struct {
	DebtorID        int64
	ProcedureType   ProcedureType
	CaseNumber      string
	ApplicationDate *time.Time
	Status          ProcedureStatus
	Notes           *string
}
