package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"debt-ledger/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkInput runs struct validation on an input and reports the first failing
// field as a domain.ValidationError. Fields named in except are skipped.
func checkInput(in any, except ...string) error {
	var err error
	if len(except) > 0 {
		err = validate.StructExcept(in, except...)
	} else {
		err = validate.Struct(in)
	}
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &domain.ValidationError{Message: err.Error()}
	}

	fe := verrs[0]
	field := snakeCase(fe.Field())
	return &domain.ValidationError{Field: field, Message: fieldMessage(fe)}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "필수 입력 항목입니다."
	case "gt":
		return fmt.Sprintf("%s보다 커야 합니다.", fe.Param())
	case "oneof":
		return fmt.Sprintf("허용되지 않는 값입니다 (%s).", strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("유효하지 않은 값입니다 (%s).", fe.Tag())
}

// snakeCase maps Go field names to their JSON names: DebtAmount -> debt_amount, DebtorID -> debtor_id.
func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || (nextLower && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
