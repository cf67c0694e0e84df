// Package repository implements the registry's record operations. Every
// repository composes the same three rules: identity fields are fixed once a
// record exists, uniqueness is checked before writing and enforced again by
// the store, and every store failure is translated into one of the error
// kinds below before it leaves the package.
//
// Callers classify failures with errors.Is against the sentinels and use
// errors.As for the structured detail (field, cause) to show to the user.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/parking-registry/internal/model"
)

var (
	// ErrNotFound means the targeted key does not exist.
	ErrNotFound = errors.New("not found")
	// ErrKeyImmutable means an update tried to change identity fields.
	ErrKeyImmutable = errors.New("key fields cannot be changed")
	// ErrValidation means a uniqueness or format rule rejected the input.
	ErrValidation = errors.New("validation conflict")
	// ErrIntegrity means a referential constraint blocked the write.
	ErrIntegrity = errors.New("integrity conflict")
	// ErrStoreUnavailable means the store failed for reasons unrelated to
	// the data. It is not recoverable by correcting the input.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError is a field-scoped rejection. Input is the value the caller
// attempted so it can be shown back for correction.
type ValidationError struct {
	Kind    model.Kind
	Field   string
	Input   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Kind, e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// IntegrityError reports a write or delete blocked by a relationship. Cause
// is the human-readable reason.
type IntegrityError struct {
	Kind  model.Kind
	Cause string
	Err   error
}

func (e *IntegrityError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Cause) }

func (e *IntegrityError) Is(target error) bool { return target == ErrIntegrity }

func (e *IntegrityError) Unwrap() error { return e.Err }

// KeyImmutableError lists the identity fields of the kind whose update was
// rejected.
type KeyImmutableError struct {
	Kind   model.Kind
	Fields []string
}

func (e *KeyImmutableError) Error() string {
	return fmt.Sprintf("%s: key fields (%s) cannot be changed; delete and create instead",
		e.Kind, strings.Join(e.Fields, ", "))
}

func (e *KeyImmutableError) Is(target error) bool { return target == ErrKeyImmutable }

// UnavailableError wraps a store failure that is not a constraint violation.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string { return fmt.Sprintf("%s: store unavailable: %v", e.Op, e.Err) }

func (e *UnavailableError) Is(target error) bool { return target == ErrStoreUnavailable }

func (e *UnavailableError) Unwrap() error { return e.Err }

func notFound(kind model.Kind, key fmt.Stringer) error {
	return fmt.Errorf("%s %s: %w", kind, key, ErrNotFound)
}

func invalid(kind model.Kind, field string, input any, msg string) error {
	return &ValidationError{Kind: kind, Field: field, Input: input, Message: msg}
}
