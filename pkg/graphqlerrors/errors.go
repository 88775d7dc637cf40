// Package graphqlerrors defines the typed failures returned by the client.
//
// Syntax errors are not part of this package: they are returned as the
// *gqlerror.Error produced by the query parser, without wrapping.
package graphqlerrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/abn/aiographql-client/pkg/response"
)

// ValidationError is returned when a query parsed successfully but does not
// validate against the schema. It carries every error the validator found.
type ValidationError struct {
	Errors gqlerror.List
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("query validation failed")
	for _, err := range e.Errors {
		sb.WriteString("\n\t")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Errors))
	for _, err := range e.Errors {
		errs = append(errs, err)
	}
	return errs
}

// RequestError is returned when the server answered with a status code
// outside of 2xx. Response holds whatever the server sent back.
type RequestError struct {
	StatusCode int
	Response   *response.Response
}

func (e *RequestError) Error() string {
	if e.Response == nil || len(e.Response.Raw()) == 0 {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Response.Raw())
}

// IntrospectionError is returned when an introspection result can not be
// turned into a schema. Errors holds the errors the server reported along
// with the result, if any.
type IntrospectionError struct {
	Message string
	Err     error
	Errors  []response.Error
}

func (e *IntrospectionError) Error() string {
	var sb strings.Builder
	sb.WriteString("introspection failed: ")
	sb.WriteString(e.Message)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	for i, err := range e.Errors {
		if i == 0 {
			sb.WriteString("\n\tserver errors:")
		}
		sb.WriteString("\n\t")
		sb.WriteString(err.Message)
	}
	return sb.String()
}

func (e *IntrospectionError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a misconfiguration that is detected before any
// network access, e.g. an unsupported HTTP method.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "invalid client configuration: " + e.Message
}

func NewConfigurationError(format string, args ...any) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsRequestError reports whether err is or wraps a *RequestError.
func IsRequestError(err error) bool {
	var target *RequestError
	return errors.As(err, &target)
}
