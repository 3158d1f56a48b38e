package dispatcher

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-dispatch/internal/errcode"
	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to dispatcher errors.
const (
	TextCodeHandlerNotFound   = "HANDLER_NOT_FOUND"
	TextCodeHandlerAmbiguous  = "HANDLER_AMBIGUOUS"
	TextCodeInvalidResultType = "INVALID_RESULT_TYPE"
)

func handlerNotFound(t reflect.Type) error {
	return goerrors.New(fmt.Sprintf("no handler registered for %s", typeString(t)), goerrors.CategoryNotFound).
		WithTextCode(TextCodeHandlerNotFound)
}

func handlerAmbiguous(t reflect.Type, candidates ...reflect.Type) error {
	msg := fmt.Sprintf("more than one handler matches %s", typeString(t))
	if len(candidates) > 0 {
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = typeString(c)
		}
		msg = fmt.Sprintf("%s: %v", msg, names)
	}
	return goerrors.New(msg, goerrors.CategoryConflict).
		WithTextCode(TextCodeHandlerAmbiguous)
}

func invalidResultType(want reflect.Type, got any) error {
	return goerrors.New(fmt.Sprintf("response has type %T, expected %s", got, typeString(want)), goerrors.CategoryInternal).
		WithTextCode(TextCodeInvalidResultType)
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// IsHandlerNotFound reports whether err was raised for a request without a handler.
func IsHandlerNotFound(err error) bool {
	return errcode.Has(err, TextCodeHandlerNotFound)
}

// IsHandlerAmbiguous reports whether err was raised for a request matched by several handlers.
func IsHandlerAmbiguous(err error) bool {
	return errcode.Has(err, TextCodeHandlerAmbiguous)
}

// IsInvalidResultType reports whether a handler returned a response of an unexpected type.
func IsInvalidResultType(err error) bool {
	return errcode.Has(err, TextCodeInvalidResultType)
}
