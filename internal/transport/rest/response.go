package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"debt-ledger/internal/domain"
)

const (
	msgDebtorNotFound    = "채무자를 찾을 수 없습니다."
	msgProcedureNotFound = "강제집행 절차를 찾을 수 없습니다."
	msgPaymentNotFound   = "상환 기록을 찾을 수 없습니다."
	msgExportNotFound    = "내보내기 작업을 찾을 수 없습니다."
	msgInvalidJSON       = "잘못된 JSON 형식입니다."
	msgNotFound          = "요청한 리소스를 찾을 수 없습니다."
)

type MessageResponse struct {
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func Response(w http.ResponseWriter, data any, httpStatus int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write response failed", "error", err)
	}
}

func Success(w http.ResponseWriter, data any) {
	Response(w, data, http.StatusOK)
}

func SuccessAccepted(w http.ResponseWriter, data any) {
	Response(w, data, http.StatusAccepted)
}

func Message(w http.ResponseWriter, message string) {
	Success(w, MessageResponse{Message: message})
}

func Created(w http.ResponseWriter, id int64, message string) {
	Success(w, MessageResponse{ID: id, Message: message})
}

func Error(w http.ResponseWriter, message string, httpStatus int) {
	Response(w, ErrorResponse{Error: message}, httpStatus)
}

func ErrorBadRequest(w http.ResponseWriter, message string) {
	Error(w, message, http.StatusBadRequest)
}

func ErrorNotFound(w http.ResponseWriter, message string) {
	Error(w, message, http.StatusNotFound)
}

func ErrorInternal(w http.ResponseWriter, message string) {
	Error(w, message, http.StatusInternalServerError)
}

// ErrorFrom maps a service error onto a status: not found is 404 with
// notFoundMsg, validation is 400 and anything else is a 500 carrying the error text.
func ErrorFrom(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	var ve *domain.ValidationError
	switch {
	case domain.IsNotFound(err):
		ErrorNotFound(w, notFoundMsg)
	case errors.As(err, &ve):
		ErrorBadRequest(w, ve.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		ErrorInternal(w, err.Error())
	}
}
