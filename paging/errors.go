package paging

import (
	"fmt"

	"github.com/goliatone/go-dispatch/internal/errcode"
	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeUnknownSortField   = "UNKNOWN_SORT_FIELD"
	TextCodeInvalidPageRequest = "INVALID_PAGE_REQUEST"
)

func unknownSortField(name string) error {
	return goerrors.New(fmt.Sprintf("unknown sort field %q", name), goerrors.CategoryBadInput).
		WithTextCode(TextCodeUnknownSortField)
}

func invalidPageRequest(format string, args ...any) error {
	return goerrors.New(fmt.Sprintf(format, args...), goerrors.CategoryBadInput).
		WithTextCode(TextCodeInvalidPageRequest)
}

// IsUnknownSortField reports whether err names a field missing from the catalog.
func IsUnknownSortField(err error) bool {
	return errcode.Has(err, TextCodeUnknownSortField)
}

// IsInvalidPageRequest reports whether err rejects the page number, page size or direction.
func IsInvalidPageRequest(err error) bool {
	return errcode.Has(err, TextCodeInvalidPageRequest)
}
