// Package errcode matches go-errors values by their text code.
package errcode

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Has reports whether err, or any error it wraps, is a *goerrors.Error carrying code.
func Has(err error, code string) bool {
	for err != nil {
		var coded *goerrors.Error
		if !errors.As(err, &coded) {
			return false
		}
		if coded.TextCode == code {
			return true
		}
		err = coded.Source
	}
	return false
}
