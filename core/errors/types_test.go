package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError_Error(t *testing.T) {
	err := &NotFoundError{
		Resource: "source",
		ID:       "AWS",
	}

	expected := "source not found: AWS"
	if err.Error() != expected {
		t.Errorf("NotFoundError.Error() = %v, want %v", err.Error(), expected)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Field:   "url",
		Message: "must use http or https",
	}

	expected := "validation error on field 'url': must use http or https"
	if err.Error() != expected {
		t.Errorf("ValidationError.Error() = %v, want %v", err.Error(), expected)
	}
}

func TestFetchError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *FetchError
		expected string
	}{
		{
			name:     "status code",
			err:      &FetchError{Source: "AWS", URL: "https://example.com/feed", StatusCode: 503},
			expected: "fetch AWS (https://example.com/feed): status 503",
		},
		{
			name:     "underlying error",
			err:      &FetchError{Source: "AWS", URL: "https://example.com/feed", Err: errors.New("connection refused")},
			expected: "fetch AWS (https://example.com/feed): connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("FetchError.Error() = %v, want %v", tt.err.Error(), tt.expected)
			}
		})
	}
}

func TestFetchError_Unwrap(t *testing.T) {
	cause := errors.New("EOF")
	err := fmt.Errorf("refresh: %w", &FetchError{Source: "Azure", Err: cause})

	if !IsFetch(err) {
		t.Error("IsFetch should return true for wrapped FetchError")
	}
	if !errors.Is(err, cause) {
		t.Error("FetchError should unwrap to its cause")
	}
}

func TestEntryParseError_Error(t *testing.T) {
	err := &EntryParseError{Source: "Google", EntryID: "tag:1", Err: errors.New("boom")}

	expected := `entry "tag:1" of Google: boom`
	if err.Error() != expected {
		t.Errorf("EntryParseError.Error() = %v, want %v", err.Error(), expected)
	}
}

func TestImportRecordError_Error(t *testing.T) {
	withName := &ImportRecordError{Index: 2, Name: "AWS", Reason: "source URL cannot be empty"}
	if withName.Error() != "import record 2 (AWS): source URL cannot be empty" {
		t.Errorf("unexpected message: %v", withName.Error())
	}

	withoutName := &ImportRecordError{Index: 0, Reason: "not an object"}
	if withoutName.Error() != "import record 0: not an object" {
		t.Errorf("unexpected message: %v", withoutName.Error())
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("database is locked")
	err := WrapError(&StoreError{Op: "save articles", Err: cause}, "ingest AWS")

	if !IsStore(err) {
		t.Error("IsStore should return true for wrapped StoreError")
	}
	if !errors.Is(err, cause) {
		t.Error("StoreError should unwrap to its cause")
	}
	if err.Error() != "ingest AWS: store save articles: database is locked" {
		t.Errorf("unexpected message: %v", err.Error())
	}
}

func TestIsNotFound_True(t *testing.T) {
	err := &NotFoundError{
		Resource: "source",
		ID:       "abc",
	}

	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for NotFoundError")
	}
}

func TestIsNotFound_False(t *testing.T) {
	err := errors.New("some other error")

	if IsNotFound(err) {
		t.Error("IsNotFound should return false for non-NotFoundError")
	}
}

func TestIsNotFound_WrappedError(t *testing.T) {
	notFound := &NotFoundError{
		Resource: "source",
		ID:       "123",
	}
	wrapped := fmt.Errorf("failed to deactivate source: %w", notFound)

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should return true for wrapped NotFoundError")
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(&ValidationError{Field: "url", Message: "invalid URL"}) {
		t.Error("IsValidation should return true for ValidationError")
	}
	if IsValidation(errors.New("some other error")) {
		t.Error("IsValidation should return false for non-ValidationError")
	}
}

func TestIsFetch_False(t *testing.T) {
	if IsFetch(errors.New("some other error")) {
		t.Error("IsFetch should return false for non-FetchError")
	}
}

func TestWrapError_PreservesOriginalError(t *testing.T) {
	originalErr := &NotFoundError{Resource: "source", ID: "abc"}
	wrappedErr := WrapError(originalErr, "failed to deactivate source")

	if wrappedErr == nil {
		t.Fatal("WrapError should not return nil for non-nil error")
	}

	expectedMsg := "failed to deactivate source: source not found: abc"
	if wrappedErr.Error() != expectedMsg {
		t.Errorf("WrapError message = %v, want %v", wrappedErr.Error(), expectedMsg)
	}

	if !IsNotFound(wrappedErr) {
		t.Error("Wrapped error should still be identifiable as NotFoundError")
	}
}

func TestWrapError_HandlesNilError(t *testing.T) {
	wrappedErr := WrapError(nil, "this should not happen")

	if wrappedErr != nil {
		t.Error("WrapError should return nil when wrapping nil error")
	}
}
