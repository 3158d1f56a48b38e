package catalog

import (
	"fmt"

	"github.com/goliatone/go-dispatch/internal/errcode"
	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeNotFound      = "NOT_FOUND"
	TextCodeInvalidImport = "INVALID_IMPORT"
)

func notFound(kind, id string) error {
	return goerrors.New(fmt.Sprintf("%s %q not found", kind, id), goerrors.CategoryNotFound).
		WithTextCode(TextCodeNotFound)
}

func invalidImport(line int, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, fmt.Sprintf("invalid product import at line %d", line)).
		WithTextCode(TextCodeInvalidImport)
}

// IsNotFound reports whether err was raised for a missing product or stock.
func IsNotFound(err error) bool {
	return errcode.Has(err, TextCodeNotFound)
}

// IsInvalidImport reports whether err rejects an import payload.
func IsInvalidImport(err error) bool {
	return errcode.Has(err, TextCodeInvalidImport)
}
