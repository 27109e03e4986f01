package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validationFailedMessage is the top-level message accompanying a
// field-level validation failure. The cart endpoints phrase it differently,
// and clients match on the exact strings.
const (
	validationFailedMessage     = "We have an errors"
	cartValidationFailedMessage = "We have some errors"
)

// newValidator builds a validator that reports fields by their JSON names,
// so the errors map lines up with the request payload the client sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldErrors converts a validation error into the field-to-messages map the
// error envelope carries. Non-validator errors produce a single generic
// entry so the caller can still render something.
func fieldErrors(err error) map[string][]string {
	out := make(map[string][]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["request"] = []string{"The request is invalid."}
		return out
	}

	for _, fe := range verrs {
		field := fe.Field()
		out[field] = append(out[field], fieldMessage(field, fe))
	}
	return out
}

// fieldMessage renders one validation failure as a human-readable sentence.
func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s field confirmation does not match.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

// addFieldError appends a message to the map, creating it when needed.
func addFieldError(m map[string][]string, field, message string) map[string][]string {
	if m == nil {
		m = make(map[string][]string)
	}
	m[field] = append(m[field], message)
	return m
}
