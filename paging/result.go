// Package paging filters, orders, pages and projects result sets, either in
// memory or pushed down to a bun select query.
//
// Page numbers are 0-based. Ordering always ends with a tie-break on a unique
// identifier so equal sort values page reproducibly.
package paging

// PaginatedResult is one page of a projected result set.
type PaginatedResult[T any] struct {
	Items       []T `json:"items" msgpack:"items"`
	TotalItems  int `json:"total_items" msgpack:"total_items"`
	CurrentPage int `json:"current_page" msgpack:"current_page"`
	PageSize    int `json:"page_size" msgpack:"page_size"`
	TotalPages  int `json:"total_pages" msgpack:"total_pages"`
}

// NewPaginatedResult derives TotalPages from total and pageSize.
func NewPaginatedResult[T any](items []T, total, pageNumber, pageSize int) PaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	return PaginatedResult[T]{
		Items:       items,
		TotalItems:  total,
		CurrentPage: pageNumber,
		PageSize:    pageSize,
		TotalPages:  totalPages(total, pageSize),
	}
}

// HasNextPage reports whether a page follows the current one.
func (r PaginatedResult[T]) HasNextPage() bool {
	return r.CurrentPage+1 < r.TotalPages
}

// HasPreviousPage reports whether a page precedes the current one.
func (r PaginatedResult[T]) HasPreviousPage() bool {
	return r.CurrentPage > 0
}

func totalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}
