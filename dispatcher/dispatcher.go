package dispatcher

import (
	"context"
	"errors"
	"reflect"
	"sort"
)

// Dispatcher sends requests through the behavior chain to their handler.
type Dispatcher struct {
	registry  *Registry
	behaviors []Behavior
}

// New creates a Dispatcher. Behaviors are sorted by (Stage, Name) once.
func New(registry *Registry, behaviors ...Behavior) *Dispatcher {
	ordered := make([]Behavior, 0, len(behaviors))
	for _, b := range behaviors {
		if b != nil {
			ordered = append(ordered, b)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Stage() != ordered[j].Stage() {
			return ordered[i].Stage() < ordered[j].Stage()
		}
		return ordered[i].Name() < ordered[j].Name()
	})

	if registry == nil {
		registry = NewRegistry()
	}

	return &Dispatcher{registry: registry, behaviors: ordered}
}

// Behaviors returns the chain in execution order.
func (d *Dispatcher) Behaviors() []Behavior {
	out := make([]Behavior, len(d.behaviors))
	copy(out, d.behaviors)
	return out
}

// Send resolves the handler for req and runs it inside the behavior chain.
func (d *Dispatcher) Send(ctx context.Context, req any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reg, err := d.registry.resolve(reflect.TypeOf(req))
	if err != nil {
		return nil, err
	}

	ctx = WithRoute(ctx, reg.route)

	next := Next(reg.invoke)
	for i := len(d.behaviors) - 1; i >= 0; i-- {
		next = wrap(d.behaviors[i], next)
	}
	return next(ctx, req)
}

func wrap(b Behavior, next Next) Next {
	return func(ctx context.Context, req any) (any, error) {
		return b.Handle(ctx, req, next)
	}
}

// Verify resolves each prototype request and returns every wiring error
// found. Call it at startup so missing or ambiguous handlers fail early.
func (d *Dispatcher) Verify(prototypes ...any) error {
	var errs []error
	for _, p := range prototypes {
		if _, err := d.registry.resolve(reflect.TypeOf(p)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Send dispatches req and asserts the response type.
func Send[TResp any](ctx context.Context, d *Dispatcher, req any) (TResp, error) {
	var zero TResp

	resp, err := d.Send(ctx, req)
	if err != nil {
		return zero, err
	}
	if resp == nil {
		return zero, nil
	}

	typed, ok := resp.(TResp)
	if !ok {
		return zero, invalidResultType(typeOf[TResp](), resp)
	}
	return typed, nil
}
