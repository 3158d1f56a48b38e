package paging

import (
	"cmp"
	"slices"
	"strings"
)

// Comparator orders two values, returning a negative number, zero or a
// positive number like cmp.Compare.
type Comparator[T any] func(a, b T) int

// By builds a Comparator from an ordered field accessor.
func By[T any, K cmp.Ordered](get func(T) K) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(get(a), get(b))
	}
}

// Catalog lists the fields of T that can be used for ordering. Names are
// matched case-insensitively.
type Catalog[T any] struct {
	fields map[string]Comparator[T]
	id     Comparator[T]
}

// NewCatalog creates a catalog whose tie-break compares unique identifiers.
// The identifier is also registered as the "Id" field.
func NewCatalog[T any](id Comparator[T]) *Catalog[T] {
	c := &Catalog[T]{fields: make(map[string]Comparator[T]), id: id}
	return c.Field("Id", id)
}

// Field registers a sortable field.
func (c *Catalog[T]) Field(name string, compare Comparator[T]) *Catalog[T] {
	c.fields[strings.ToLower(name)] = compare
	return c
}

// Lookup resolves a field name.
func (c *Catalog[T]) Lookup(name string) (Comparator[T], error) {
	compare, ok := c.fields[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, unknownSortField(name)
	}
	return compare, nil
}

func (c *Catalog[T]) ordering(name string, dir SortDirection) (Comparator[T], error) {
	primary, err := c.Lookup(name)
	if err != nil {
		return nil, err
	}
	return func(a, b T) int {
		r := primary(a, b)
		if r == 0 {
			r = c.id(a, b)
		}
		if dir == Descending {
			return -r
		}
		return r
	}, nil
}

// Project filters source, orders it by orderBy then by id, and returns page
// pageNumber mapped through mapper. A nil filter keeps every item. A page past
// the last one is empty but still reports the totals.
func Project[T, R any](source []T, filter func(T) bool, catalog *Catalog[T], orderBy string, dir SortDirection, pageNumber, pageSize int, mapper func(T) R) (PaginatedResult[R], error) {
	if err := validatePage(pageNumber, pageSize); err != nil {
		return PaginatedResult[R]{}, err
	}
	compare, err := catalog.ordering(orderBy, dir)
	if err != nil {
		return PaginatedResult[R]{}, err
	}

	matched := make([]T, 0, len(source))
	for _, item := range source {
		if filter == nil || filter(item) {
			matched = append(matched, item)
		}
	}
	slices.SortStableFunc(matched, compare)

	total := len(matched)
	start, ok := offset(pageNumber, pageSize)
	if !ok || start >= total {
		return NewPaginatedResult([]R{}, total, pageNumber, pageSize), nil
	}
	end := min(start+pageSize, total)

	items := make([]R, 0, end-start)
	for _, item := range matched[start:end] {
		items = append(items, mapper(item))
	}
	return NewPaginatedResult(items, total, pageNumber, pageSize), nil
}
