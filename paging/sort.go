package paging

import (
	"math"
	"strings"
)

// SortDirection is Ascending or Descending.
type SortDirection string

const (
	Ascending  SortDirection = "Ascending"
	Descending SortDirection = "Descending"
)

// ParseSortDirection accepts "Ascending", "asc", "Descending" and "desc" in
// any case. An empty string is Ascending.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return "", invalidPageRequest("unknown sort direction %q", s)
	}
}

func (d SortDirection) sql() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

func validatePage(pageNumber, pageSize int) error {
	if pageNumber < 0 {
		return invalidPageRequest("page number must not be negative, got %d", pageNumber)
	}
	if pageSize <= 0 {
		return invalidPageRequest("page size must be positive, got %d", pageSize)
	}
	return nil
}

// offset returns pageNumber*pageSize, or false when it overflows int.
func offset(pageNumber, pageSize int) (int, bool) {
	if pageNumber > 0 && pageSize > math.MaxInt/pageNumber {
		return 0, false
	}
	return pageNumber * pageSize, true
}
