package model

import (
	"errors"
	"fmt"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrDuplicateReference  = errors.New("gateway reference already exists")
)

// TransactionError carries an internal error code alongside a
// user-facing message.
type TransactionError struct {
	Code    string
	Message string
	Err     error
}

func (e *TransactionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func NewTransactionError(code, message string, err error) *TransactionError {
	return &TransactionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewInvalidTransitionError(from, to string) *TransactionError {
	return NewTransactionError(
		ErrCodeInvalidTransition,
		fmt.Sprintf("cannot transition from %s to %s", from, to),
		ErrInvalidTransition,
	)
}
