// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors
var (
	ErrInsufficientData = errors.New("insufficient data for calculation")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrUnknownStrategy  = errors.New("unknown strategy")
	ErrInvalidWindow    = errors.New("invalid candle window")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrDataNotFound     = errors.New("data not found")
	ErrDatabaseError    = errors.New("database error")
)

// UnknownStrategyError is returned by the factory when a strategy name is
// not registered. It carries the currently available names so the caller
// can decide a fallback.
type UnknownStrategyError struct {
	Name      string
	Available []string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown strategy %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

func (e *UnknownStrategyError) Unwrap() error {
	return ErrUnknownStrategy
}

// NewUnknownStrategyError creates a new UnknownStrategyError.
func NewUnknownStrategyError(name string, available []string) *UnknownStrategyError {
	return &UnknownStrategyError{Name: name, Available: available}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// StrategyError represents an error raised while running a strategy.
type StrategyError struct {
	Strategy string
	Symbol   string
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy error [%s] %s: %v", e.Strategy, e.Symbol, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// NewStrategyError creates a new StrategyError.
func NewStrategyError(strategy, symbol string, err error) *StrategyError {
	return &StrategyError{
		Strategy: strategy,
		Symbol:   symbol,
		Err:      err,
	}
}

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Symbol   string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Symbol, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, symbol, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Symbol:   symbol,
		Message:  message,
		Err:      err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
