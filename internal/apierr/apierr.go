package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned to clients.
const (
	CodeValidation     = "validation_error"
	CodeEmptySelection = "empty_selection"
	CodeNotFound       = "not_found"
	CodePipeline       = "pipeline_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(err error) *Error {
	return New(http.StatusBadRequest, CodeValidation, err)
}

func EmptySelection(err error) *Error {
	return New(http.StatusBadRequest, CodeEmptySelection, err)
}

func NotFound(err error) *Error {
	return New(http.StatusNotFound, CodeNotFound, err)
}

func Pipeline(err error) *Error {
	return New(http.StatusInternalServerError, CodePipeline, err)
}

// Is reports whether err is an *Error carrying the given code.
func Is(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
