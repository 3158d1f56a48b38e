// Package events buffers domain events raised by aggregates and delivers
// them to subscribed handlers after the unit of work commits.
package events

import "time"

// Payload is a domain event variant. EventName is the variant tag used to
// route the event to its handlers and must not depend on field values.
type Payload interface {
	EventName() string
}

// Envelope wraps a payload with delivery metadata.
type Envelope struct {
	Payload    Payload
	OccurredAt time.Time
	Published  bool
}

// Name returns the variant tag of the wrapped payload.
func (e Envelope) Name() string {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.EventName()
}

// Source is implemented by aggregates that buffer events.
type Source interface {
	DrainEvents() []Envelope
}

// Buffer is an append-only list of raised events. Embed it in aggregates.
// It is not safe for concurrent use; an aggregate belongs to one unit of work.
type Buffer struct {
	pending []Envelope
}

// Raise appends payload to the buffer.
func (b *Buffer) Raise(payload Payload) {
	if payload == nil {
		return
	}
	b.pending = append(b.pending, Envelope{
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	})
}

// Pending returns a copy of the buffered events in raise order.
func (b *Buffer) Pending() []Envelope {
	out := make([]Envelope, len(b.pending))
	copy(out, b.pending)
	return out
}

// DrainEvents returns the buffered events in raise order and empties the buffer.
func (b *Buffer) DrainEvents() []Envelope {
	out := b.pending
	b.pending = nil
	return out
}
