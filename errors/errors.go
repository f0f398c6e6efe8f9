/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration is returned when names, indexes or constraints cannot be resolved.
	// It always signals drift between code and provisioned infrastructure.
	ErrConfiguration = errors.New("configuration error")

	// ErrDataIntegrity is returned when a persisted attribute does not match its encoded shape
	ErrDataIntegrity = errors.New("data integrity error")

	// ErrStoreFault is returned when the underlying store call fails
	ErrStoreFault = errors.New("store fault")

	// ErrClosed is returned by a client that has been released
	ErrClosed = errors.New("store client closed")
)

// NotFoundError represents an error when a record is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConfigurationError is fatal and never retried.
type ConfigurationError struct {
	Component string
	Message   string
}

func (e *ConfigurationError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s: %s", e.Component, e.Message)
	}
	return e.Message
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// DataIntegrityError names the attribute and record that failed to decode.
type DataIntegrityError struct {
	Entity    string
	Attribute string
	Key       string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("%s.%s with id %s contains invalid data", e.Entity, e.Attribute, e.Key)
}

func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

// StoreFault wraps an uninterpreted failure from the underlying store client
type StoreFault struct {
	Operation string
	Err       error
}

func (e *StoreFault) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

func (e *StoreFault) Is(target error) bool {
	return target == ErrStoreFault
}

func (e *StoreFault) Unwrap() error {
	return e.Err
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(component, format string, args ...any) error {
	return &ConfigurationError{Component: component, Message: fmt.Sprintf(format, args...)}
}

// NewDataIntegrityError creates a new DataIntegrityError
func NewDataIntegrityError(entity, attribute, key string) error {
	return &DataIntegrityError{Entity: entity, Attribute: attribute, Key: key}
}

// NewStoreFault wraps err as a StoreFault for the named operation. A nil err stays nil.
func NewStoreFault(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreFault{Operation: operation, Err: err}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConfiguration checks if an error is a configuration error
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsDataIntegrity checks if an error is a data integrity error
func IsDataIntegrity(err error) bool {
	return errors.Is(err, ErrDataIntegrity)
}

// IsStoreFault checks if an error is a store fault
func IsStoreFault(err error) bool {
	return errors.Is(err, ErrStoreFault)
}
