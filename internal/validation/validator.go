// Package validation checks service inputs with go-playground/validator and
// converts failures into domain validation errors.
//
// Fields may carry a `label` tag used in messages; without one the JSON name is used:
//
//	Title string `json:"title" label:"Diary Title" validate:"required,max=255"`
//	// -> "Diary Title cannot be empty"
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	domainerrors "github.com/diaryhq/diary-server/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Validate validates s (a struct or pointer to struct). On failure it returns
// a VALIDATION error whose message is the first failing field's message and
// whose details map every failing field to its message.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid input")
	}

	labels := fieldLabels(s)
	details := make(map[string]string, len(fieldErrs))
	first := ""
	for _, fe := range fieldErrs {
		label, ok := labels[fe.StructField()]
		if !ok {
			label = fe.Field()
		}
		msg := friendlyMessage(label, fe)
		details[fe.Field()] = msg
		if first == "" {
			first = msg
		}
	}
	return domainerrors.ValidationWithDetails(first, details)
}

func fieldLabels(s any) map[string]string {
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	labels := make(map[string]string)
	if t.Kind() != reflect.Struct {
		return labels
	}
	for i := range t.NumField() {
		f := t.Field(i)
		if label := f.Tag.Get("label"); label != "" {
			labels[f.Name] = label
		}
	}
	return labels
}

func friendlyMessage(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return label + " cannot be empty"
	case "email":
		return "Not a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("Invalid enum value, must be one of [%s]", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", label, fe.Param())
	default:
		return label + " is invalid"
	}
}
