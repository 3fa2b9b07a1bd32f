package customer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"customer-service/internal/pkg/apperrors"
	"customer-service/internal/pkg/optional"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type RegistrationRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
	Age   int    `json:"age" validate:"gte=0,lte=150"`
}

func (r RegistrationRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return translateValidationError(err)
	}
	return nil
}

// UpdateRequest is a partial update: an empty field leaves the stored value as is.
type UpdateRequest struct {
	Name  optional.Value[string] `json:"name"`
	Email optional.Value[string] `json:"email"`
	Age   optional.Value[int]    `json:"age"`
}

// Validate checks only the fields that are present.
func (r UpdateRequest) Validate() error {
	if name, ok := r.Name.Get(); ok {
		if err := validate.Var(name, "required,max=255"); err != nil {
			return fieldValidationError("name", err)
		}
	}
	if email, ok := r.Email.Get(); ok {
		if err := validate.Var(email, "required,email,max=255"); err != nil {
			return fieldValidationError("email", err)
		}
	}
	if age, ok := r.Age.Get(); ok {
		if err := validate.Var(age, "gte=0,lte=150"); err != nil {
			return fieldValidationError("age", err)
		}
	}
	return nil
}

func translateValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperrors.NewValidationError(fe.Field(), ruleMessage(fe))
	}
	return fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
}

func fieldValidationError(field string, err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperrors.NewValidationError(field, ruleMessage(fieldErrs[0]))
	}
	return fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
