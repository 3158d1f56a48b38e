package uow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-dispatch/events"
	"github.com/goliatone/go-dispatch/identity"
	"github.com/goliatone/go-dispatch/pkg/testsupport"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type note struct {
	bun.BaseModel `bun:"table:notes,alias:n"`
	events.Buffer `bun:"-"`
	Audit

	ID       uuid.UUID `bun:"id,pk,type:text"`
	Title    string    `bun:"title,notnull"`
	TenantID string    `bun:"tenant_id"`
}

func (n *note) Tenant() string          { return n.TenantID }
func (n *note) AssignTenant(id string) { n.TenantID = id }

type noteWritten struct{ ID uuid.UUID }

func (noteWritten) EventName() string { return "note.written" }

func noteHandlers() repository.ModelHandlers[*note] {
	return repository.ModelHandlers[*note]{
		NewRecord: func() *note { return &note{} },
		GetID: func(n *note) uuid.UUID {
			if n == nil {
				return uuid.Nil
			}
			return n.ID
		},
		SetID:         func(n *note, id uuid.UUID) { n.ID = id },
		GetIdentifier: func() string { return "title" },
	}
}

type fixture struct {
	factory   *Factory
	notes     repository.Repository[*note]
	delivered *[]string
}

var fixedNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testsupport.OpenSQLite(t)
	if _, err := db.NewCreateTable().Model((*note)(nil)).Exec(context.Background()); err != nil {
		t.Fatalf("create table: %v", err)
	}

	dispatcher := events.NewDispatcher(testsupport.DiscardLogger())
	delivered := &[]string{}
	events.Subscribe(dispatcher, "recorder", func(ctx context.Context, e noteWritten, env events.Envelope) error {
		*delivered = append(*delivered, e.ID.String())
		return nil
	})

	factory := NewFactory(db, dispatcher, identity.ContextAccessor{},
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(testsupport.DiscardLogger()),
	)
	return &fixture{
		factory:   factory,
		notes:     repository.NewRepository[*note](db, noteHandlers()),
		delivered: delivered,
	}
}

func newNote(title string) *note {
	n := &note{ID: uuid.New(), Title: title}
	n.Raise(noteWritten{ID: n.ID})
	return n
}

func userContext() context.Context {
	return identity.WithUser(context.Background(), identity.User{ID: "user-1", TenantID: "tenant-1"})
}

func TestSaveChanges_CommitsStampsAndPublishes(t *testing.T) {
	f := newFixture(t)
	ctx := userContext()

	u := f.factory.Begin()
	notes := Collection(u, f.notes)
	n := newNote("first")
	notes.Add(n)

	if len(*f.delivered) != 0 {
		t.Fatal("events must not be published before SaveChanges")
	}
	if err := u.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}

	stored, found, err := Collection(f.factory.Begin(), f.notes).Find(ctx, n.ID)
	if err != nil || !found {
		t.Fatalf("expected stored note, found=%v err=%v", found, err)
	}
	if stored.CreatedBy != "user-1" || !stored.Created.Equal(fixedNow) {
		t.Errorf("expected audit stamp, got %+v", stored.Audit)
	}
	if stored.TenantID != "tenant-1" {
		t.Errorf("expected tenant to be assigned, got %q", stored.TenantID)
	}
	if len(*f.delivered) != 1 || (*f.delivered)[0] != n.ID.String() {
		t.Errorf("expected one delivered event, got %v", *f.delivered)
	}
	if len(n.Pending()) != 0 {
		t.Error("expected aggregate buffer to be drained")
	}
}

func TestSaveChanges_RollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := userContext()

	existing := newNote("existing")
	seed := f.factory.Begin()
	Collection(seed, f.notes).Add(existing)
	if err := seed.SaveChanges(ctx); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	*f.delivered = nil

	u := f.factory.Begin()
	notes := Collection(u, f.notes)
	fresh := newNote("fresh")
	notes.Add(fresh)
	notes.Add(&note{ID: existing.ID, Title: "duplicate"})

	err := u.SaveChanges(ctx)
	if err == nil {
		t.Fatal("expected duplicate primary key to fail")
	}

	_, found, _ := Collection(f.factory.Begin(), f.notes).Find(ctx, fresh.ID)
	if found {
		t.Error("expected the whole transaction to roll back")
	}
	if len(*f.delivered) != 0 {
		t.Errorf("expected no events after a failed commit, got %v", *f.delivered)
	}
	if fresh.CreatedBy != "" || !fresh.Created.IsZero() || fresh.TenantID != "" {
		t.Errorf("expected stamps to be restored after rollback, got %+v tenant=%q", fresh.Audit, fresh.TenantID)
	}
}

func TestSaveChanges_RollbackRestoresPreviousStamps(t *testing.T) {
	f := newFixture(t)
	ctx := userContext()

	existing := newNote("existing")
	seed := f.factory.Begin()
	Collection(seed, f.notes).Add(existing)
	if err := seed.SaveChanges(ctx); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	u := f.factory.Begin()
	notes := Collection(u, f.notes)
	existing.Title = "renamed"
	notes.Update(existing)
	notes.Add(&note{ID: existing.ID, Title: "duplicate"})

	if err := u.SaveChanges(ctx); err == nil {
		t.Fatal("expected duplicate primary key to fail")
	}
	if existing.LastModified != nil || existing.LastModifiedBy != "" {
		t.Errorf("expected modification stamp to be rolled back, got %+v", existing.Audit)
	}
	if existing.CreatedBy != "user-1" || existing.TenantID != "tenant-1" {
		t.Errorf("expected committed stamps to survive, got %+v tenant=%q", existing.Audit, existing.TenantID)
	}
}

func TestSaveChanges_UpdateAndRemove(t *testing.T) {
	f := newFixture(t)
	ctx := userContext()

	n := newNote("draft")
	create := f.factory.Begin()
	Collection(create, f.notes).Add(n)
	if err := create.SaveChanges(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	update := f.factory.Begin()
	notes := Collection(update, f.notes)
	n.Title = "final"
	notes.Update(n)
	if err := update.SaveChanges(ctx); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	stored, _, _ := notes.Find(ctx, n.ID)
	if stored.Title != "final" || stored.LastModifiedBy != "user-1" || stored.LastModified == nil {
		t.Errorf("expected modified stamp and new title, got %+v", stored)
	}

	remove := f.factory.Begin()
	Collection(remove, f.notes).Remove(n)
	if err := remove.SaveChanges(ctx); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, found, _ := notes.Find(ctx, n.ID); found {
		t.Error("expected note to be removed")
	}
}

func TestSaveChanges_NothingPending(t *testing.T) {
	f := newFixture(t)
	u := f.factory.Begin()

	if u.Pending() != 0 {
		t.Errorf("expected no pending changes, got %d", u.Pending())
	}
	if err := u.SaveChanges(context.Background()); err != nil {
		t.Errorf("expected empty SaveChanges to succeed, got %v", err)
	}
}

func TestSaveChanges_CancelledAfterCommitKeepsData(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(userContext())

	dispatcher := events.NewDispatcher(testsupport.DiscardLogger())
	events.Subscribe(dispatcher, "cancel", func(ctx context.Context, e noteWritten, env events.Envelope) error {
		cancel()
		return errors.New("late")
	})
	factory := NewFactory(f.factory.DB(), dispatcher, nil, WithLogger(testsupport.DiscardLogger()))

	u := factory.Begin()
	first, second := newNote("a"), newNote("b")
	Collection(u, f.notes).Add(first)
	Collection(u, f.notes).Add(second)

	if err := u.SaveChanges(ctx); err != nil {
		t.Fatalf("committed work must not fail on event problems, got %v", err)
	}

	count, err := Collection(f.factory.Begin(), f.notes).Query().Count(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected both notes committed, got %d", count)
	}
}

func TestSet_List(t *testing.T) {
	f := newFixture(t)
	ctx := userContext()

	u := f.factory.Begin()
	notes := Collection(u, f.notes)
	notes.Add(newNote("a"))
	notes.Add(newNote("b"))
	if err := u.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}

	records, total, err := notes.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(records) != 2 {
		t.Errorf("expected 2 notes, got %d (%d)", len(records), total)
	}
}
