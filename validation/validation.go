// Package validation holds the rule model used by the validation behavior.
//
// Requests opt in by registering rules for their type. Requests without
// rules are never inspected.
package validation

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"

	"github.com/goliatone/go-dispatch/internal/errcode"
	goerrors "github.com/goliatone/go-errors"
)

// TextCodeValidationFailed marks errors returned for requests that broke one or more rules.
const TextCodeValidationFailed = "VALIDATION_FAILED"

// Violation is a single broken rule.
type Violation struct {
	Field   string
	Message string
}

// Rule checks a request of type T.
type Rule[T any] interface {
	Check(ctx context.Context, req T) []Violation
}

// RuleFunc adapts a function to Rule.
type RuleFunc[T any] func(ctx context.Context, req T) []Violation

// Check calls f(ctx, req).
func (f RuleFunc[T]) Check(ctx context.Context, req T) []Violation {
	return f(ctx, req)
}

type check func(ctx context.Context, req any) []Violation

// Registry stores rules per request type.
type Registry struct {
	mu     sync.RWMutex
	checks map[reflect.Type][]check
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{checks: make(map[reflect.Type][]check)}
}

// Register appends rules for T. Rules run in registration order.
func Register[T any](r *Registry, rules ...Rule[T]) {
	reqType := reflect.TypeOf((*T)(nil)).Elem()

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rule := range rules {
		if rule == nil {
			continue
		}
		r.checks[reqType] = append(r.checks[reqType], func(ctx context.Context, req any) []Violation {
			typed, ok := req.(T)
			if !ok {
				return nil
			}
			return rule.Check(ctx, typed)
		})
	}
}

// Has reports whether rules are registered for req's type.
func (r *Registry) Has(req any) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.checks[reflect.TypeOf(req)]) > 0
}

// Validate runs every rule registered for req and returns an error built
// with Failed when any of them reports a violation.
func (r *Registry) Validate(ctx context.Context, req any) error {
	r.mu.RLock()
	checks := r.checks[reflect.TypeOf(req)]
	r.mu.RUnlock()

	var violations []Violation
	for _, c := range checks {
		if err := ctx.Err(); err != nil {
			return err
		}
		violations = append(violations, c(ctx, req)...)
	}

	if len(violations) == 0 {
		return nil
	}
	return Failed(violations)
}

// Failed builds the error returned for a request with violations.
func Failed(violations []Violation) error {
	fields := make([]goerrors.FieldError, len(violations))
	for i, v := range violations {
		fields[i] = goerrors.FieldError{Field: v.Field, Message: v.Message}
	}
	return goerrors.NewValidation("validation failed", fields...).
		WithTextCode(TextCodeValidationFailed)
}

// IsValidationFailed reports whether err was built with Failed.
func IsValidationFailed(err error) bool {
	return errcode.Has(err, TextCodeValidationFailed)
}

// Violations extracts the violations carried by err, or nil.
func Violations(err error) []Violation {
	var coded *goerrors.Error
	for {
		if !errors.As(err, &coded) {
			return nil
		}
		if coded.TextCode == TextCodeValidationFailed {
			break
		}
		err = coded.Source
	}

	out := make([]Violation, len(coded.ValidationErrors))
	for i, fe := range coded.ValidationErrors {
		out[i] = Violation{Field: fe.Field, Message: fe.Message}
	}
	return out
}

func sortViolations(violations []Violation) {
	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].Field != violations[j].Field {
			return violations[i].Field < violations[j].Field
		}
		return violations[i].Message < violations[j].Message
	})
}
