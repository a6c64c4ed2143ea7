package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"debt-ledger/internal/domain"
)

const dateLayout = "2006-01-02"

// errMalformedBody marks a body that is not a JSON object.
var errMalformedBody = errors.New("malformed body")

// decodeBody keeps numbers as json.Number so amounts past 2^53 stay exact.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errMalformedBody
	}
	return nil
}

type rawDebtorRequest struct {
	Name               any `json:"name"`
	Phone              any `json:"phone"`
	Address            any `json:"address"`
	DebtAmount         any `json:"debt_amount"`
	OriginalCaseNumber any `json:"original_case_number"`
	VictoryDate        any `json:"victory_date"`
	Notes              any `json:"notes"`
}

func ValidateDebtorRequest(r *http.Request) (domain.DebtorInput, error) {
	var raw rawDebtorRequest
	if err := decodeBody(r, &raw); err != nil {
		return domain.DebtorInput{}, err
	}

	var in domain.DebtorInput

	name, err := toStringPtr(raw.Name)
	if err != nil {
		return in, invalid("name", "문자열이어야 합니다.")
	}
	if name != nil {
		in.Name = *name
	}
	if in.Phone, err = toStringPtr(raw.Phone); err != nil {
		return in, invalid("phone", "문자열이어야 합니다.")
	}
	if in.Address, err = toStringPtr(raw.Address); err != nil {
		return in, invalid("address", "문자열이어야 합니다.")
	}
	if in.OriginalCaseNumber, err = toStringPtr(raw.OriginalCaseNumber); err != nil {
		return in, invalid("original_case_number", "문자열이어야 합니다.")
	}
	if in.Notes, err = toStringPtr(raw.Notes); err != nil {
		return in, invalid("notes", "문자열이어야 합니다.")
	}

	amount, err := toInt64Ptr(raw.DebtAmount)
	if err != nil {
		return in, invalid("debt_amount", "정수여야 합니다.")
	}
	if amount != nil {
		in.DebtAmount = *amount
	}

	if in.VictoryDate, err = toDatePtr(raw.VictoryDate); err != nil {
		return in, invalid("victory_date", "YYYY-MM-DD 형식이어야 합니다.")
	}

	return in, nil
}

type rawProcedureRequest struct {
	DebtorID        any `json:"debtor_id"`
	ProcedureType   any `json:"procedure_type"`
	CaseNumber      any `json:"case_number"`
	ApplicationDate any `json:"application_date"`
	Status          any `json:"status"`
	Notes           any `json:"notes"`
}

func ValidateProcedureRequest(r *http.Request) (domain.ProcedureInput, error) {
	var raw rawProcedureRequest
	if err := decodeBody(r, &raw); err != nil {
		return domain.ProcedureInput{}, err
	}

	var in domain.ProcedureInput

	debtorID, err := toInt64Ptr(raw.DebtorID)
	if err != nil {
		return in, invalid("debtor_id", "정수여야 합니다.")
	}
	if debtorID != nil {
		in.DebtorID = *debtorID
	}

	procType, err := toStringPtr(raw.ProcedureType)
	if err != nil {
		return in, invalid("procedure_type", "문자열이어야 합니다.")
	}
	if procType != nil {
		in.ProcedureType = domain.ProcedureType(*procType)
	}

	caseNumber, err := toStringPtr(raw.CaseNumber)
	if err != nil {
		return in, invalid("case_number", "문자열이어야 합니다.")
	}
	if caseNumber != nil {
		in.CaseNumber = *caseNumber
	}

	status, err := toStringPtr(raw.Status)
	if err != nil {
		return in, invalid("status", "문자열이어야 합니다.")
	}
	if status != nil {
		in.Status = domain.ProcedureStatus(*status)
	}

	if in.ApplicationDate, err = toDatePtr(raw.ApplicationDate); err != nil {
		return in, invalid("application_date", "YYYY-MM-DD 형식이어야 합니다.")
	}
	if in.Notes, err = toStringPtr(raw.Notes); err != nil {
		return in, invalid("notes", "문자열이어야 합니다.")
	}

	return in, nil
}

type rawPaymentRequest struct {
	DebtorID      any `json:"debtor_id"`
	Amount        any `json:"amount"`
	PaymentDate   any `json:"payment_date"`
	PaymentMethod any `json:"payment_method"`
	Notes         any `json:"notes"`
}

func ValidatePaymentRequest(r *http.Request) (domain.PaymentInput, error) {
	var raw rawPaymentRequest
	if err := decodeBody(r, &raw); err != nil {
		return domain.PaymentInput{}, err
	}

	var in domain.PaymentInput

	debtorID, err := toInt64Ptr(raw.DebtorID)
	if err != nil {
		return in, invalid("debtor_id", "정수여야 합니다.")
	}
	if debtorID != nil {
		in.DebtorID = *debtorID
	}

	// The amount is stored as given, sign included, but it must be present.
	amount, err := toInt64Ptr(raw.Amount)
	if err != nil {
		return in, invalid("amount", "정수여야 합니다.")
	}
	if amount == nil {
		return in, invalid("amount", "필수 입력 항목입니다.")
	}
	in.Amount = *amount

	date, err := toDatePtr(raw.PaymentDate)
	if err != nil {
		return in, invalid("payment_date", "YYYY-MM-DD 형식이어야 합니다.")
	}
	if date != nil {
		in.PaymentDate = *date
	}

	method, err := toStringPtr(raw.PaymentMethod)
	if err != nil {
		return in, invalid("payment_method", "문자열이어야 합니다.")
	}
	if method != nil {
		in.PaymentMethod = domain.PaymentMethod(*method)
	}

	if in.Notes, err = toStringPtr(raw.Notes); err != nil {
		return in, invalid("notes", "문자열이어야 합니다.")
	}

	return in, nil
}

func invalid(field, message string) error {
	return &domain.ValidationError{Field: field, Message: message}
}

func toStringPtr(v any) (*string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		if t == "" {
			return nil, nil
		}
		return &t, nil
	case json.Number:
		s := t.String()
		return &s, nil
	default:
		return nil, errors.New("invalid type for string field")
	}
}

func toInt64Ptr(v any) (*int64, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return nil, err
		}
		return &i, nil
	case string:
		if t == "" {
			return nil, nil
		}
		i, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return nil, err
		}
		return &i, nil
	default:
		return nil, errors.New("invalid type for int field")
	}
}

// toDatePtr accepts YYYY-MM-DD and, for clients that send full timestamps, RFC 3339.
func toDatePtr(v any) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		if t == "" {
			return nil, nil
		}
		parsed, err := time.Parse(dateLayout, t)
		if err != nil {
			ts, tsErr := time.Parse(time.RFC3339, t)
			if tsErr != nil {
				return nil, err
			}
			parsed = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		}
		return &parsed, nil
	default:
		return nil, errors.New("invalid type for date field")
	}
}

func parseID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseDebtorFilter reads the optional ?debtor_id= query parameter.
func parseDebtorFilter(r *http.Request) (*int64, error) {
	return toInt64Ptr(r.URL.Query().Get("debtor_id"))
}
