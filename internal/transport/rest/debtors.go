package rest

import (
	"errors"
	"net/http"
)

func (h *Handler) listDebtors(w http.ResponseWriter, r *http.Request) {
	debtors, err := h.debtors.ListDebtors(r.Context())
	if err != nil {
		ErrorFrom(w, r, err, msgDebtorNotFound)
		return
	}

	out := make([]DebtorSummaryResponse, 0, len(debtors))
	for _, d := range debtors {
		out = append(out, toDebtorSummaryResponse(d))
	}
	Success(w, out)
}

func (h *Handler) getDebtor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		ErrorNotFound(w, msgDebtorNotFound)
		return
	}

	d, err := h.debtors.GetDebtor(r.Context(), id)
	if err != nil {
		ErrorFrom(w, r, err, msgDebtorNotFound)
		return
	}
	Success(w, toDebtorDetailResponse(d))
}

func (h *Handler) createDebtor(w http.ResponseWriter, r *http.Request) {
	in, err := ValidateDebtorRequest(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	id, err := h.debtors.CreateDebtor(r.Context(), in)
	if err != nil {
		ErrorFrom(w, r, err, msgDebtorNotFound)
		return
	}
	Created(w, id, "채무자가 성공적으로 추가되었습니다.")
}

func (h *Handler) updateDebtor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		ErrorNotFound(w, msgDebtorNotFound)
		return
	}
	in, err := ValidateDebtorRequest(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	if err := h.debtors.UpdateDebtor(r.Context(), id, in); err != nil {
		ErrorFrom(w, r, err, msgDebtorNotFound)
		return
	}
	Message(w, "채무자 정보가 성공적으로 수정되었습니다.")
}

func (h *Handler) deleteDebtor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		ErrorNotFound(w, msgDebtorNotFound)
		return
	}

	if err := h.debtors.DeleteDebtor(r.Context(), id); err != nil {
		ErrorFrom(w, r, err, msgDebtorNotFound)
		return
	}
	Message(w, "채무자가 성공적으로 삭제되었습니다.")
}

// badRequest reports a body that failed to decode.
func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errMalformedBody) {
		ErrorBadRequest(w, msgInvalidJSON)
		return
	}
	ErrorFrom(w, r, err, msgNotFound)
}
