package rest

import "net/http"

func (h *Handler) listProcedures(w http.ResponseWriter, r *http.Request) {
	debtorID, err := parseDebtorFilter(r)
	if err != nil {
		ErrorBadRequest(w, "debtor_id: 정수여야 합니다.")
		return
	}

	procs, err := h.procedures.ListProcedures(r.Context(), debtorID)
	if err != nil {
		ErrorFrom(w, r, err, msgProcedureNotFound)
		return
	}
	Success(w, toProcedureResponses(procs))
}

func (h *Handler) getProcedure(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		ErrorNotFound(w, msgProcedureNotFound)
		return
	}

	p, err := h.procedures.GetProcedure(r.Context(), id)
	if err != nil {
		ErrorFrom(w, r, err, msgProcedureNotFound)
		return
	}
	Success(w, toProcedureResponse(*p))
}

func (h *Handler) createProcedure(w http.ResponseWriter, r *http.Request) {
	in, err := ValidateProcedureRequest(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	id, err := h.procedures.CreateProcedure(r.Context(), in)
	if err != nil {
		// the only reference a new procedure holds is its debtor
		ErrorFrom(w, r, err, msgDebtorNotFound)
		return
	}
	Created(w, id, "강제집행 절차가 성공적으로 추가되었습니다.")
}

func (h *Handler) updateProcedure(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		ErrorNotFound(w, msgProcedureNotFound)
		return
	}
	in, err := ValidateProcedureRequest(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	if err := h.procedures.UpdateProcedure(r.Context(), id, in); err != nil {
		ErrorFrom(w, r, err, msgProcedureNotFound)
		return
	}
	Message(w, "강제집행 절차가 성공적으로 수정되었습니다.")
}

func (h *Handler) deleteProcedure(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		ErrorNotFound(w, msgProcedureNotFound)
		return
	}

	if err := h.procedures.DeleteProcedure(r.Context(), id); err != nil {
		ErrorFrom(w, r, err, msgProcedureNotFound)
		return
	}
	Message(w, "강제집행 절차가 성공적으로 삭제되었습니다.")
}
