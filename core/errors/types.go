// ABOUTME: Custom error types for the ingestion core
// ABOUTME: Classifies fetch, entry, import and store failures so callers can isolate them

package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// FetchError is a whole-source failure: network, HTTP status or feed syntax.
// The source contributes zero articles and the batch continues.
type FetchError struct {
	Source     string
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s (%s): status %d", e.Source, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s (%s): %v", e.Source, e.URL, e.Err)
}

// Unwrap returns the underlying cause
func (e *FetchError) Unwrap() error {
	return e.Err
}

// EntryParseError is a single malformed entry; the entry is skipped
type EntryParseError struct {
	Source  string
	EntryID string
	Err     error
}

// Error implements the error interface
func (e *EntryParseError) Error() string {
	return fmt.Sprintf("entry %q of %s: %v", e.EntryID, e.Source, e.Err)
}

// Unwrap returns the underlying cause
func (e *EntryParseError) Unwrap() error {
	return e.Err
}

// ImportRecordError describes a skipped record of a source import
type ImportRecordError struct {
	Index  int
	Name   string
	Reason string
}

// Error implements the error interface
func (e *ImportRecordError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("import record %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("import record %d (%s): %s", e.Index, e.Name, e.Reason)
}

// StoreError is a failure at the persistence boundary
type StoreError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause
func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsFetch checks if an error is a FetchError
func IsFetch(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// IsStore checks if an error is a StoreError
func IsStore(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
