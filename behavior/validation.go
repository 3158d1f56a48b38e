package behavior

import (
	"context"

	"github.com/goliatone/go-dispatch/dispatcher"
	"github.com/goliatone/go-dispatch/validation"
)

// Validation runs the rules registered for a request before any later stage.
type Validation struct {
	rules *validation.Registry
}

// NewValidation returns the validation stage for rules.
func NewValidation(rules *validation.Registry) *Validation {
	if rules == nil {
		rules = validation.NewRegistry()
	}
	return &Validation{rules: rules}
}

func (v *Validation) Stage() dispatcher.Stage { return dispatcher.StageValidation }
func (v *Validation) Name() string            { return "validation" }

func (v *Validation) Handle(ctx context.Context, req any, next dispatcher.Next) (any, error) {
	if !v.rules.Has(req) {
		return next(ctx, req)
	}
	if err := v.rules.Validate(ctx, req); err != nil {
		return nil, err
	}
	return next(ctx, req)
}
