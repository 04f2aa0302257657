// Package errors defines typed service errors with an HTTP status code mapping.
package errors

import (
	"net/http"

	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

// WithName is implemented by errors with a stable machine-readable name.
type WithName interface {
	ErrorName() string
}

// WithStatusCode is implemented by errors that map to an HTTP status code.
type WithStatusCode interface {
	StatusCode() int
}

// HTTPCodeFrom returns the status code of the error, or 500 as the default.
func HTTPCodeFrom(err error) int {
	var withCode WithStatusCode
	if errors.As(err, &withCode) {
		return withCode.StatusCode()
	}
	return http.StatusInternalServerError
}
