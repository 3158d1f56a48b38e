package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/puzpuzpuz/xsync/v3"
)

// HandlerFunc receives one event.
type HandlerFunc func(ctx context.Context, env Envelope) error

type subscription struct {
	name   string
	handle HandlerFunc
}

// Dispatcher delivers events to the handlers subscribed to their variant.
type Dispatcher struct {
	handlers *xsync.MapOf[string, []subscription]
	logger   *slog.Logger
}

// NewDispatcher returns an empty Dispatcher. A nil logger uses slog.Default.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		handlers: xsync.NewMapOf[string, []subscription](),
		logger:   logger,
	}
}

// On subscribes fn to events whose variant tag is eventName.
func (d *Dispatcher) On(eventName, handlerName string, fn HandlerFunc) {
	sub := subscription{name: handlerName, handle: fn}
	d.handlers.Compute(eventName, func(old []subscription, loaded bool) ([]subscription, bool) {
		next := make([]subscription, len(old), len(old)+1)
		copy(next, old)
		return append(next, sub), false
	})
}

// Subscribe registers a typed handler for payload variant P. The variant tag
// is read from the zero value of P, so P must implement Payload on a value
// receiver.
func Subscribe[P Payload](d *Dispatcher, handlerName string, fn func(ctx context.Context, payload P, env Envelope) error) {
	var zero P
	d.On(zero.EventName(), handlerName, func(ctx context.Context, env Envelope) error {
		payload, ok := env.Payload.(P)
		if !ok {
			return fmt.Errorf("event %s carries %T", env.Name(), env.Payload)
		}
		return fn(ctx, payload, env)
	})
}

// HandlerCount returns the number of handlers subscribed to eventName.
func (d *Dispatcher) HandlerCount(eventName string) int {
	subs, _ := d.handlers.Load(eventName)
	return len(subs)
}

// Publish delivers envelopes in order. Each handler runs in isolation: an
// error or panic is logged and the remaining handlers still run. Delivered
// envelopes are marked Published in place. Publish stops and returns the
// context error when ctx is done; handler failures are never returned.
func (d *Dispatcher) Publish(ctx context.Context, envelopes []Envelope) error {
	for i := range envelopes {
		if err := ctx.Err(); err != nil {
			return err
		}

		env := envelopes[i]
		subs, _ := d.handlers.Load(env.Name())
		for _, sub := range subs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := d.deliver(ctx, sub, env); err != nil {
				d.logger.ErrorContext(ctx, "event handler failed",
					slog.String("event", env.Name()),
					slog.String("handler", sub.name),
					slog.Any("error", err))
			}
		}
		envelopes[i].Published = true
	}
	return nil
}

// PublishFrom drains every source and publishes its events in source order.
func (d *Dispatcher) PublishFrom(ctx context.Context, sources ...Source) error {
	var pending []Envelope
	for _, src := range sources {
		if src == nil {
			continue
		}
		pending = append(pending, src.DrainEvents()...)
	}
	if len(pending) == 0 {
		return nil
	}
	return d.Publish(ctx, pending)
}

func (d *Dispatcher) deliver(ctx context.Context, sub subscription, env Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return sub.handle(ctx, env)
}
