package errorx

import (
	"errors"
	"fmt"
)

type Error struct {
	Code    Code
	Message string

	// Data carries extra fields the client needs to react to the error, for
	// example the required and available amounts of a failed purchase.
	Data any
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func (e Error) Error() string {
	return e.Message
}

// Is reports whether target is an Error with the same code, so callers can use
// errors.Is(err, errorx.New(errorx.InventoryConflict, "")).
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok {
		return false
	}

	return t.Code == e.Code
}

func (e Error) WithData(data any) Error {
	e.Data = data
	return e
}

// CodeOf returns the code of err, or Unknown's code if err is not an Error.
func CodeOf(err error) Code {
	var errx Error
	if errors.As(err, &errx) {
		return errx.Code
	}

	return Unknown.Code
}
