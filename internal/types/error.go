package types

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindUnauthenticated Kind = "unauthenticated"
	KindInvalid         Kind = "invalid"
	KindExpired         Kind = "expired"
	KindForbidden       Kind = "forbidden"
	KindTransaction     Kind = "transaction"
)

// DomainError is the typed failure every core operation returns.
// Callers must treat KindTransaction as "no state change occurred".
type DomainError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches DomainErrors by kind so errors.Is works across wrapping.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func NotFound(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindUnauthenticated, Message: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

func Expired(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindExpired, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// TransactionFailed wraps a store-level error that aborted a
// multi-statement mutation after rollback.
func TransactionFailed(err error, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindTransaction, Message: fmt.Sprintf(format, args...), Err: err}
}

func kindOf(err error) (Kind, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

func IsNotFound(err error) bool        { k, ok := kindOf(err); return ok && k == KindNotFound }
func IsConflict(err error) bool        { k, ok := kindOf(err); return ok && k == KindConflict }
func IsUnauthenticated(err error) bool { k, ok := kindOf(err); return ok && k == KindUnauthenticated }
func IsInvalid(err error) bool         { k, ok := kindOf(err); return ok && k == KindInvalid }
func IsExpired(err error) bool         { k, ok := kindOf(err); return ok && k == KindExpired }
func IsForbidden(err error) bool       { k, ok := kindOf(err); return ok && k == KindForbidden }
func IsTransactionFailed(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindTransaction
}

// CustomError is the transport-facing error raised by middleware and
// mapped by the global Fiber error handler.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}
