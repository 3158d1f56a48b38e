package validation

import (
	"context"
	"errors"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

// Ozzo adapts an ozzo-validation function to Rule. Nested field errors are
// flattened to dotted names, such as "ids.0", and sorted by field.
func Ozzo[T any](fn func(req T) error) Rule[T] {
	return RuleFunc[T](func(ctx context.Context, req T) []Violation {
		err := fn(req)
		if err == nil {
			return nil
		}

		var fieldErrs ozzo.Errors
		if !errors.As(err, &fieldErrs) {
			return []Violation{{Message: err.Error()}}
		}

		var violations []Violation
		flatten("", fieldErrs, &violations)
		sortViolations(violations)
		return violations
	})
}

// Validatable adapts a request type that validates itself with ozzo.
func Validatable[T ozzo.Validatable]() Rule[T] {
	return Ozzo(func(req T) error { return req.Validate() })
}

func flatten(prefix string, errs ozzo.Errors, out *[]Violation) {
	for field, err := range errs {
		if err == nil {
			continue
		}
		name := field
		if prefix != "" {
			name = prefix + "." + field
		}

		var nested ozzo.Errors
		if errors.As(err, &nested) {
			flatten(name, nested, out)
			continue
		}
		*out = append(*out, Violation{Field: name, Message: err.Error()})
	}
}
