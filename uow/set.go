package uow

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Set is a typed collection of aggregates inside a unit of work. Reads go
// straight to the database; writes are queued until SaveChanges.
type Set[T any] struct {
	uow  *UnitOfWork
	repo repository.Repository[T]
}

// Collection binds repo to u.
func Collection[T any](u *UnitOfWork, repo repository.Repository[T]) *Set[T] {
	return &Set[T]{uow: u, repo: repo}
}

// Find loads the aggregate with id. The boolean is false when none exists.
func (s *Set[T]) Find(ctx context.Context, id uuid.UUID, criteria ...repository.SelectCriteria) (T, bool, error) {
	var zero T

	criteria = append(criteria, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id = ?", id).Limit(1)
	})
	records, _, err := s.repo.ListTx(ctx, s.uow.factory.db, criteria...)
	if err != nil {
		return zero, false, err
	}
	if len(records) == 0 {
		return zero, false, nil
	}
	return records[0], true, nil
}

// List loads the aggregates matching criteria and their total count.
func (s *Set[T]) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error) {
	return s.repo.ListTx(ctx, s.uow.factory.db, criteria...)
}

// Query starts a select over the set's table for ad hoc reads.
func (s *Set[T]) Query() *bun.SelectQuery {
	return s.uow.factory.db.NewSelect().Model(s.repo.Handlers().NewRecord())
}

// Add queues an insert.
func (s *Set[T]) Add(entity T) {
	s.uow.enqueue(operation{
		kind:   opCreate,
		entity: entity,
		apply: func(ctx context.Context, tx bun.IDB) error {
			_, err := s.repo.CreateTx(ctx, tx, entity)
			return err
		},
	})
}

// Update queues an update of every column.
func (s *Set[T]) Update(entity T) {
	s.uow.enqueue(operation{
		kind:   opUpdate,
		entity: entity,
		apply: func(ctx context.Context, tx bun.IDB) error {
			_, err := s.repo.UpdateTx(ctx, tx, entity)
			return err
		},
	})
}

// Remove queues a delete.
func (s *Set[T]) Remove(entity T) {
	s.uow.enqueue(operation{
		kind:   opDelete,
		entity: entity,
		apply: func(ctx context.Context, tx bun.IDB) error {
			return s.repo.DeleteTx(ctx, tx, entity)
		},
	})
}
