// Package uow groups persistence changes into one bun transaction and
// publishes the events raised by the changed aggregates after it commits.
package uow

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/goliatone/go-dispatch/events"
	"github.com/goliatone/go-dispatch/identity"
	"github.com/uptrace/bun"
)

type opKind int

const (
	opCreate opKind = iota
	opUpdate
	opDelete
)

type operation struct {
	kind   opKind
	entity any
	apply  func(ctx context.Context, tx bun.IDB) error
}

// Factory starts units of work against one database.
type Factory struct {
	db       *bun.DB
	events   *events.Dispatcher
	identity identity.Accessor
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Factory.
type Option func(*Factory)

// WithClock overrides the time source used for audit stamps.
func WithClock(now func() time.Time) Option {
	return func(f *Factory) {
		if now != nil {
			f.now = now
		}
	}
}

// WithLogger sets the logger used to report event delivery problems.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFactory returns a Factory. A nil accessor stamps no user and a nil
// dispatcher drops raised events.
func NewFactory(db *bun.DB, dispatcher *events.Dispatcher, accessor identity.Accessor, opts ...Option) *Factory {
	if accessor == nil {
		accessor = identity.ContextAccessor{}
	}
	f := &Factory{
		db:       db,
		events:   dispatcher,
		identity: accessor,
		logger:   slog.Default(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// DB returns the database the factory writes to.
func (f *Factory) DB() *bun.DB {
	return f.db
}

// Begin starts an empty unit of work. Nothing touches the database until
// SaveChanges.
func (f *Factory) Begin() *UnitOfWork {
	return &UnitOfWork{factory: f}
}

// UnitOfWork collects pending changes. It is used by one request at a time.
type UnitOfWork struct {
	factory *Factory
	ops     []operation
	tracked []events.Source
}

// Track registers an aggregate whose events are published after commit.
func (u *UnitOfWork) Track(src events.Source) {
	if src == nil {
		return
	}
	for _, existing := range u.tracked {
		if existing == src {
			return
		}
	}
	u.tracked = append(u.tracked, src)
}

func (u *UnitOfWork) enqueue(op operation) {
	u.ops = append(u.ops, op)
	if src, ok := op.entity.(events.Source); ok {
		u.Track(src)
	}
}

// Pending returns the number of queued changes.
func (u *UnitOfWork) Pending() int {
	return len(u.ops)
}

// SaveChanges stamps audit fields, applies every queued change in a single
// transaction and, once it commits, publishes the events of tracked
// aggregates. Persistence errors are returned as is, nothing is published
// and the stamped fields are restored on the caller's entities. Event
// delivery problems are logged and never returned.
func (u *UnitOfWork) SaveChanges(ctx context.Context) error {
	f := u.factory
	ops := u.ops
	u.ops = nil

	if len(ops) > 0 {
		userID, _ := f.identity.UserID(ctx)
		tenantID, _ := f.identity.TenantID(ctx)
		at := f.now()
		snapshots := make([]stampSnapshot, 0, len(ops))
		for _, op := range ops {
			snapshots = append(snapshots, snapshotStamps(op.entity))
			switch op.kind {
			case opCreate:
				stampCreated(op.entity, userID, tenantID, at)
			case opUpdate:
				stampModified(op.entity, userID, at)
			}
		}

		err := f.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
			for _, op := range ops {
				if err := op.apply(ctx, tx); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			for i := len(snapshots) - 1; i >= 0; i-- {
				snapshots[i].restore()
			}
			u.discardEvents()
			return err
		}
	}

	u.publish(ctx)
	return nil
}

func (u *UnitOfWork) publish(ctx context.Context) {
	sources := u.tracked
	u.tracked = nil
	if u.factory.events == nil {
		for _, src := range sources {
			src.DrainEvents()
		}
		return
	}
	if err := u.factory.events.PublishFrom(ctx, sources...); err != nil {
		u.factory.logger.WarnContext(ctx, "event delivery aborted after commit", slog.Any("error", err))
	}
}

func (u *UnitOfWork) discardEvents() {
	for _, src := range u.tracked {
		src.DrainEvents()
	}
	u.tracked = nil
}
