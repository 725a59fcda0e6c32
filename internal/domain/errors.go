package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrAuthFailure       = errors.New("invalid username or password")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrAmountOutOfRange  = errors.New("amount out of range")
)

type AuthFailureReason string

const (
	AuthUnknownUser        AuthFailureReason = "unknown user"
	AuthCredentialMismatch AuthFailureReason = "credential mismatch"
)

// AuthError is returned for every failed authentication. Callers should
// show ErrAuthFailure's message only; Reason is for logs.
type AuthError struct {
	Reason AuthFailureReason
}

func (e *AuthError) Error() string {
	return ErrAuthFailure.Error()
}

func (e *AuthError) Unwrap() error {
	return ErrAuthFailure
}

type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Message)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

type StockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}
