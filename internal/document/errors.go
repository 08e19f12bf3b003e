package document

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable error identifier returned to callers.
type Code string

const (
	CodeBadRequest              Code = "badRequest"
	CodeInvalidConfig           Code = "invalidConfig"
	CodeNotFound                Code = "notFound"
	CodeCannotCreateDocument    Code = "cannotCreateDocument"
	CodeCannotMoveToDestination Code = "cannotMoveToDestination"
	CodeTryAgainLater           Code = "tryAgainLater"
)

var defaultMessages = map[Code]string{
	CodeBadRequest:              "Invalid parameters",
	CodeInvalidConfig:           "Invalid server configuration",
	CodeNotFound:                "Destination folder not found",
	CodeCannotCreateDocument:    "Cannot create document",
	CodeCannotMoveToDestination: "Cannot move document to destination folder",
	CodeTryAgainLater:           "Try again later",
}

// ActionError is a failure of one step of the document creation flow.
type ActionError struct {
	Code    Code
	Message string
	Err     error
}

// NewActionError returns an error of the given kind with an explicit message.
func NewActionError(code Code, message string) *ActionError {
	return &ActionError{Code: code, Message: message}
}

// WrapActionError tags err with the given kind, keeping the default message for it.
func WrapActionError(code Code, err error) *ActionError {
	return &ActionError{Code: code, Err: err}
}

func (e *ActionError) Error() string {
	msg := e.Description()
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Description is the human readable message sent to the caller.
func (e *ActionError) Description() string {
	if e.Message != "" {
		return e.Message
	}
	if m, ok := defaultMessages[e.Code]; ok {
		return m
	}
	return string(e.Code)
}

// Status maps the error kind to an HTTP status code.
func (e *ActionError) Status() int {
	switch e.Code {
	case CodeBadRequest, CodeInvalidConfig, CodeNotFound, CodeCannotCreateDocument, CodeCannotMoveToDestination:
		return http.StatusBadRequest
	default:
		return http.StatusServiceUnavailable
	}
}

// AsActionError classifies any error returned by the service layer.
// Cancelled or timed-out requests are tryAgainLater whatever step they hit;
// other errors that carry no kind are reported as tryAgainLater too.
func AsActionError(err error) *ActionError {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &ActionError{Code: CodeTryAgainLater, Message: "Request cancelled", Err: err}
	}
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae
	}
	return WrapActionError(CodeTryAgainLater, err)
}
