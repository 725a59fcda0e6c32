package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/joao-fontenele/retail-ledger/internal/domain"
)

type registration struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type newProduct struct {
	Name  string       `validate:"required"`
	Price domain.Money `validate:"gte=0"`
	Stock int          `validate:"gte=0"`
}

// check validates v and converts the first failure into a *domain.InputError.
func (l *Ledger) check(v any) error {
	err := l.validate.Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return inputError(ve[0])
	}
	return err
}

func inputError(fe validator.FieldError) *domain.InputError {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return &domain.InputError{Field: field, Message: "is required"}
	case "gte":
		if fe.Param() == "0" {
			return &domain.InputError{Field: field, Message: "must not be negative"}
		}
		return &domain.InputError{Field: field, Message: "must be at least " + fe.Param()}
	default:
		return &domain.InputError{Field: field, Message: fmt.Sprintf("failed validation (%s)", fe.Tag())}
	}
}
