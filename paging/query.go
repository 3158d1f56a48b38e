package paging

import (
	"context"
	"strings"

	"github.com/uptrace/bun"
)

// Columns maps sortable field names to database columns of a bun model.
type Columns struct {
	fields map[string]string
	id     string
}

// NewColumns creates a column catalog whose tie-break column is id. The id
// column is also registered as the "Id" field.
func NewColumns(id string) *Columns {
	c := &Columns{fields: make(map[string]string), id: id}
	return c.Field("Id", id)
}

// Field registers a sortable column.
func (c *Columns) Field(name, column string) *Columns {
	c.fields[strings.ToLower(name)] = column
	return c
}

// Lookup resolves a field name to its column.
func (c *Columns) Lookup(name string) (string, error) {
	column, ok := c.fields[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", unknownSortField(name)
	}
	return column, nil
}

// QueryFilter narrows a select query, typically with Where and Relation.
type QueryFilter func(q *bun.SelectQuery) *bun.SelectQuery

// ProjectQuery is Project pushed down to SQL: filter becomes the WHERE clause,
// ordering and paging become ORDER BY, LIMIT and OFFSET, and the total is
// counted by the same query.
func ProjectQuery[T, R any](ctx context.Context, db bun.IDB, columns *Columns, filter QueryFilter, orderBy string, dir SortDirection, pageNumber, pageSize int, mapper func(T) R) (PaginatedResult[R], error) {
	if err := validatePage(pageNumber, pageSize); err != nil {
		return PaginatedResult[R]{}, err
	}
	column, err := columns.Lookup(orderBy)
	if err != nil {
		return PaginatedResult[R]{}, err
	}

	var rows []T
	q := db.NewSelect().Model(&rows)
	if filter != nil {
		q = filter(q)
	}

	start, ok := offset(pageNumber, pageSize)
	if !ok {
		total, err := q.Count(ctx)
		if err != nil {
			return PaginatedResult[R]{}, err
		}
		return NewPaginatedResult([]R{}, total, pageNumber, pageSize), nil
	}

	q = q.OrderExpr("?TableAlias.? "+dir.sql(), bun.Ident(column))
	if column != columns.id {
		q = q.OrderExpr("?TableAlias.? "+dir.sql(), bun.Ident(columns.id))
	}

	total, err := q.Limit(pageSize).Offset(start).ScanAndCount(ctx)
	if err != nil {
		return PaginatedResult[R]{}, err
	}

	items := make([]R, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapper(row))
	}
	return NewPaginatedResult(items, total, pageNumber, pageSize), nil
}
