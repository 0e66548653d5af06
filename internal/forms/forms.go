// Package forms validates user input before it is sent to the backend, so
// obvious violations are rendered as field errors without a round trip.
package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Errors maps a wire field name to a user-facing message.
type Errors map[string]string

func (e Errors) Has(field string) bool { return e[field] != "" }

// Check validates v's struct tags. The returned map is nil when v is valid.
func Check(v any) Errors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"": "invalid input"}
	}
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		out[fieldName(fe)] = message(fe)
	}
	return out
}

func fieldName(fe validator.FieldError) string {
	// Namespace is Type.Field[...]; drop the type, keep nested paths.
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must have at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must have exactly %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return "is invalid"
}
