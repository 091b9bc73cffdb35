package errorutil

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes shared by every resource.
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeStorage      = "STORAGE_ERROR"
)

const genericStorageMessage = "Error interno del servidor."

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Reasons returns the individual validation reasons carried by the error.
// A single-reason error yields its message.
func (e *DomainError) Reasons() []string {
	if e == nil {
		return nil
	}
	if reasons, ok := e.Details["reasons"].([]string); ok {
		return reasons
	}
	return []string{e.Message}
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewInvalidInput(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidInput, message, http.StatusBadRequest, details)
}

// NewInvalidInputReasons reports every failing reason at once, one per line.
func NewInvalidInputReasons(reasons []string) error {
	return NewDomainError(CodeInvalidInput, strings.Join(reasons, "\n"), http.StatusBadRequest, map[string]any{
		"reasons": reasons,
	})
}

func NewNotFound(message string, details map[string]any) error {
	return NewDomainError(CodeNotFound, message, http.StatusNotFound, details)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewStorageError hides err from the caller; Error() still carries it for logs.
func NewStorageError(message string, err error) error {
	if message == "" {
		message = genericStorageMessage
	}
	return &DomainError{
		Code:       CodeStorage,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return NewDomainError(CodeNotFound, "Registro no encontrado.", http.StatusNotFound, nil)
	}
	return &DomainError{
		Code:       CodeStorage,
		Message:    genericStorageMessage,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err maps to the given code.
func HasCode(err error, code string) bool {
	de := ToDomainError(err)
	return de != nil && de.Code == code
}
