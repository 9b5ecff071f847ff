package validation

import (
	"errors"
	"fmt"
	"strings"

	"ozpay/internal/domain/entities"
	"ozpay/internal/usecase/interfaces"

	"github.com/go-playground/validator/v10"
)

// PaymentValidator checks the structural rules declared on PaymentIntent tags.
type PaymentValidator struct {
	v *validator.Validate
}

var _ interfaces.IPaymentValidator = (*PaymentValidator)(nil)

func NewPaymentValidator() *PaymentValidator {
	return &PaymentValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (p *PaymentValidator) Validate(intent entities.PaymentIntent) error {
	intent.TenantID = strings.TrimSpace(intent.TenantID)
	intent.Method = strings.TrimSpace(intent.Method)
	err := p.v.Struct(intent)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s long", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid e-mail", field)
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
