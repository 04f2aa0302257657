package errors

import (
	"net/http"
)

// UnprocessableContentError is returned when the request is well-formed
// but a domain rule prevents the operation.
type UnprocessableContentError struct {
	err error
}

func NewUnprocessableContentError(err error) UnprocessableContentError {
	return UnprocessableContentError{err: err}
}

func (UnprocessableContentError) ErrorName() string {
	return "unprocessableContent"
}

func (e UnprocessableContentError) StatusCode() int {
	return http.StatusUnprocessableEntity
}

func (e UnprocessableContentError) Unwrap() error {
	return e.err
}

func (e UnprocessableContentError) Error() string {
	return e.err.Error()
}
