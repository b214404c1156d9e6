package utils

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindOutOfStock ErrorKind = "out_of_stock"
	KindAuth       ErrorKind = "auth"
	KindInternal   ErrorKind = "internal"
)

// AppError erreur métier transportée jusqu'au handler HTTP
type AppError struct {
	Kind      ErrorKind
	Message   string
	Retryable bool
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func NewConflictError(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

// NewRetryableConflict signale une écriture concurrente perdue : le client peut rejouer la requête
func NewRetryableConflict(msg string, err error) *AppError {
	return &AppError{Kind: KindConflict, Message: msg, Retryable: true, Err: err}
}

func NewOutOfStockError(msg string) *AppError {
	return &AppError{Kind: KindOutOfStock, Message: msg}
}

func NewAuthError(msg string) *AppError {
	return &AppError{Kind: KindAuth, Message: msg}
}

func NewInternalError(msg string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf retourne le type d'une erreur, internal si ce n'est pas une AppError
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindOutOfStock:
		return http.StatusConflict
	case KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
