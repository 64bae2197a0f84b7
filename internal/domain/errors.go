package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports one or more invalid fields on a submitted entity.
// Field names map to human-readable messages suitable for form feedback.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// NewValidationErrors creates a ValidationError from a field->message map.
func NewValidationErrors(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError indicates a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	Ref    string
}

// NewNotFoundError creates a NotFoundError for the given entity and reference.
func NewNotFoundError(entity, ref string) *NotFoundError {
	return &NotFoundError{Entity: entity, Ref: ref}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Ref)
}

// ConflictError indicates the operation conflicts with current persisted state,
// such as assigning a driver to a booking that already has an active assignment.
type ConflictError struct {
	Message string
}

// NewConflictError creates a ConflictError with the given message.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func (e *ConflictError) Error() string { return e.Message }

// InvalidStateError indicates a status transition that the booking lifecycle
// does not allow.
type InvalidStateError struct {
	From string
	To   string
}

// NewInvalidStateError creates an InvalidStateError for the attempted transition.
func NewInvalidStateError(from, to string) *InvalidStateError {
	return &InvalidStateError{From: from, To: to}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// ForbiddenError indicates the caller is not allowed to perform the operation.
type ForbiddenError struct {
	Message string
}

// NewForbiddenError creates a ForbiddenError with the given message.
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func (e *ForbiddenError) Error() string { return e.Message }

// PartialFailureError indicates that a multi-step storage operation was left
// half-applied and compensation also failed. It requires manual reconciliation
// and must never be retried automatically.
type PartialFailureError struct {
	Operation string
	Cause     error
}

// NewPartialFailureError creates a PartialFailureError for the given operation.
func NewPartialFailureError(operation string, cause error) *PartialFailureError {
	return &PartialFailureError{Operation: operation, Cause: cause}
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure during %s: %v", e.Operation, e.Cause)
}

func (e *PartialFailureError) Unwrap() error { return e.Cause }
