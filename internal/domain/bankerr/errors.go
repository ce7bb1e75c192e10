// Package bankerr holds the error taxonomy shared by every ledger.
// Callers match the category with errors.Is against the sentinels and
// read details with errors.As against the typed errors.
package bankerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrStateConflict     = errors.New("state conflict")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type StateConflictError struct {
	Reason string
}

func (e *StateConflictError) Error() string { return "state conflict: " + e.Reason }

func (e *StateConflictError) Is(target error) bool { return target == ErrStateConflict }

type InsufficientFundsError struct {
	Balance  decimal.Decimal
	Required decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %s, required %s", e.Balance.StringFixed(2), e.Required.StringFixed(2))
}

func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficientFunds }

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Entity, e.ID) }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func StateConflict(format string, args ...any) error {
	return &StateConflictError{Reason: fmt.Sprintf(format, args...)}
}

func InsufficientFunds(balance, required decimal.Decimal) error {
	return &InsufficientFundsError{Balance: balance, Required: required}
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// Required reports a ValidationError when value is blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return Validation(field, "is required")
	}
	return nil
}
