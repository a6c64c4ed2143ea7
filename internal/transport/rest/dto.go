package rest

import (
	"time"

	"debt-ledger/internal/domain"
)

type DebtorResponse struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Phone              *string   `json:"phone"`
	Address            *string   `json:"address"`
	DebtAmount         int64     `json:"debt_amount"`
	OriginalCaseNumber *string   `json:"original_case_number"`
	VictoryDate        *string   `json:"victory_date"`
	Notes              *string   `json:"notes"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type DebtorSummaryResponse struct {
	DebtorResponse
	PaidAmount      int64               `json:"paid_amount"`
	RemainingAmount int64               `json:"remaining_amount"`
	Procedures      []ProcedureResponse `json:"procedures"`
}

type DebtorDetailResponse struct {
	DebtorSummaryResponse
	Payments []PaymentResponse `json:"payments"`
}

type ProcedureResponse struct {
	ID              int64     `json:"id"`
	DebtorID        int64     `json:"debtor_id"`
	ProcedureType   string    `json:"procedure_type"`
	CaseNumber      string    `json:"case_number"`
	ApplicationDate *string   `json:"application_date"`
	Status          string    `json:"status"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type PaymentResponse struct {
	ID            int64     `json:"id"`
	DebtorID      int64     `json:"debtor_id"`
	Amount        int64     `json:"amount"`
	PaymentDate   string    `json:"payment_date"`
	PaymentMethod *string   `json:"payment_method"`
	Notes         *string   `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// DashboardResponse keeps the camelCase keys the dashboard client reads.
type DashboardResponse struct {
	TotalDebtors     int64 `json:"totalDebtors"`
	TotalDebtAmount  int64 `json:"totalDebtAmount"`
	TotalPaidAmount  int64 `json:"totalPaidAmount"`
	RemainingAmount  int64 `json:"remainingAmount"`
	ActiveProcedures int64 `json:"activeProcedures"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toDebtorResponse(d domain.Debtor) DebtorResponse {
	return DebtorResponse{
		ID:                 d.ID,
		Name:               d.Name,
		Phone:              d.Phone,
		Address:            d.Address,
		DebtAmount:         d.DebtAmount,
		OriginalCaseNumber: d.OriginalCaseNumber,
		VictoryDate:        formatDate(d.VictoryDate),
		Notes:              d.Notes,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

func toDebtorSummaryResponse(d domain.DebtorSummary) DebtorSummaryResponse {
	return DebtorSummaryResponse{
		DebtorResponse:  toDebtorResponse(d.Debtor),
		PaidAmount:      d.PaidAmount,
		RemainingAmount: d.RemainingAmount,
		Procedures:      toProcedureResponses(d.Procedures),
	}
}

func toDebtorDetailResponse(d *domain.DebtorDetail) DebtorDetailResponse {
	return DebtorDetailResponse{
		DebtorSummaryResponse: toDebtorSummaryResponse(d.DebtorSummary),
		Payments:              toPaymentResponses(d.Payments),
	}
}

func toProcedureResponse(p domain.EnforcementProcedure) ProcedureResponse {
	return ProcedureResponse{
		ID:              p.ID,
		DebtorID:        p.DebtorID,
		ProcedureType:   string(p.ProcedureType),
		CaseNumber:      p.CaseNumber,
		ApplicationDate: formatDate(p.ApplicationDate),
		Status:          string(p.Status),
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toProcedureResponses(procs []domain.EnforcementProcedure) []ProcedureResponse {
	out := make([]ProcedureResponse, 0, len(procs))
	for _, p := range procs {
		out = append(out, toProcedureResponse(p))
	}
	return out
}

func toPaymentResponse(p domain.Payment) PaymentResponse {
	var method *string
	if p.PaymentMethod != nil {
		m := string(*p.PaymentMethod)
		method = &m
	}
	return PaymentResponse{
		ID:            p.ID,
		DebtorID:      p.DebtorID,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate.Format(dateLayout),
		PaymentMethod: method,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}

func toPaymentResponses(payments []domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	return out
}

func toDashboardResponse(st domain.PortfolioStats) DashboardResponse {
	return DashboardResponse(st)
}
