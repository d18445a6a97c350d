// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Error categories. Services wrap them so handlers can pick a status code
// without knowing every domain error.
var (
	ErrNotFound     = errors.New("no encontrado")
	ErrConflict     = errors.New("conflicto")
	ErrValidation   = errors.New("datos invalidos")
	ErrForbidden    = errors.New("operacion no permitida")
	ErrUnauthorized = errors.New("no autenticado")
)

// Status maps an error to the HTTP status its category implies.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Wrap tags err with a category while keeping its own message for clients.
func Wrap(category error, msg string) error {
	return &categorized{category: category, msg: msg}
}

type categorized struct {
	category error
	msg      string
}

func (e *categorized) Error() string { return e.msg }

func (e *categorized) Unwrap() error { return e.category }
