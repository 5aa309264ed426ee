package endpoint

import (
	"fmt"
	"net/http"
)

// scimType values carried by bad-request errors (RFC 7644 section 3.12 plus
// the custom kinds of this SDK).
const (
	ScimTypeInvalidParameters  = "invalidParameters"
	ScimTypeUnparseableRequest = "unparseableRequest"
	ScimTypeUnknownResource    = "unknownResource"
	ScimTypeInvalidFilter      = "invalidFilter"
	ScimTypeInvalidPath        = "invalidPath"
	ScimTypeInvalidValue       = "invalidValue"
)

// BadRequestError reports a client mistake: malformed parameters, an
// unparseable body, an unknown endpoint or a bad filter expression.
type BadRequestError struct {
	Message  string
	ScimType string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status analog for this error.
func (e *BadRequestError) StatusCode() int {
	return http.StatusBadRequest
}

// NotFoundError reports that the requested resource does not exist.
type NotFoundError struct {
	ResourceType string
	ID           string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("the %q resource with id %q does not exist", e.ResourceType, e.ID)
}

// StatusCode returns the HTTP status analog for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// NotImplementedError reports that a handler does not implement an
// operation. It is raised when a handler returns a nil result from create
// or list.
type NotImplementedError struct {
	Operation    string
	ResourceType string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s is not implemented for resource type %q", e.Operation, e.ResourceType)
}

// StatusCode returns the HTTP status analog for this error.
func (e *NotImplementedError) StatusCode() int {
	return http.StatusNotImplemented
}

// InternalError reports a server-side invariant violation, typically a
// misbehaving handler (missing id, mismatched id, missing meta), or any
// unrecognized failure inside a pipeline.
type InternalError struct {
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status analog for this error.
func (e *InternalError) StatusCode() int {
	return http.StatusInternalServerError
}

// StatusCodeError is implemented by every error the pipelines produce.
type StatusCodeError interface {
	error
	StatusCode() int
}

func badRequest(scimType, format string, args ...interface{}) *BadRequestError {
	return &BadRequestError{Message: fmt.Sprintf(format, args...), ScimType: scimType}
}

func internalf(format string, args ...interface{}) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}
