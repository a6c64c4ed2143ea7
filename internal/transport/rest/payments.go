package rest

import "net/http"

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	debtorID, err := parseDebtorFilter(r)
	if err != nil {
		ErrorBadRequest(w, "debtor_id: 정수여야 합니다.")
		return
	}

	payments, err := h.payments.ListPayments(r.Context(), debtorID)
	if err != nil {
		ErrorFrom(w, r, err, msgPaymentNotFound)
		return
	}
	Success(w, toPaymentResponses(payments))
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		ErrorNotFound(w, msgPaymentNotFound)
		return
	}

	p, err := h.payments.GetPayment(r.Context(), id)
	if err != nil {
		ErrorFrom(w, r, err, msgPaymentNotFound)
		return
	}
	Success(w, toPaymentResponse(*p))
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	in, err := ValidatePaymentRequest(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	id, err := h.payments.CreatePayment(r.Context(), in)
	if err != nil {
		ErrorFrom(w, r, err, msgDebtorNotFound)
		return
	}
	Created(w, id, "상환 기록이 성공적으로 추가되었습니다.")
}

func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		ErrorNotFound(w, msgPaymentNotFound)
		return
	}
	in, err := ValidatePaymentRequest(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	if err := h.payments.UpdatePayment(r.Context(), id, in); err != nil {
		ErrorFrom(w, r, err, msgPaymentNotFound)
		return
	}
	Message(w, "상환 기록이 성공적으로 수정되었습니다.")
}

func (h *Handler) deletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		ErrorNotFound(w, msgPaymentNotFound)
		return
	}

	if err := h.payments.DeletePayment(r.Context(), id); err != nil {
		ErrorFrom(w, r, err, msgPaymentNotFound)
		return
	}
	Message(w, "상환 기록이 성공적으로 삭제되었습니다.")
}

func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	Success(w, toDashboardResponse(h.dashboard.GetDashboardStats(r.Context())))
}
