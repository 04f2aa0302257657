package errors

import (
	"net/http"
)

// InvalidStateError is returned when the resource exists but its state does not permit the operation.
type InvalidStateError struct {
	err error
}

func NewInvalidStateError(err error) InvalidStateError {
	return InvalidStateError{err: err}
}

func (InvalidStateError) ErrorName() string {
	return "invalidState"
}

func (e InvalidStateError) StatusCode() int {
	return http.StatusConflict
}

func (e InvalidStateError) Unwrap() error {
	return e.err
}

func (e InvalidStateError) Error() string {
	return e.err.Error()
}
