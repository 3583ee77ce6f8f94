package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeValidation, http.StatusUnprocessableEntity},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodePermissionDenied, http.StatusForbidden},
		{ErrCodeDependentRecords, http.StatusConflict},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := New(tc.code, "x").HTTPStatus(); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.code, tc.want, got)
		}
	}
}

func TestCodeOfWrappedError(t *testing.T) {
	t.Parallel()

	inner := New(ErrCodeConflict, "duplicate")
	wrapped := fmt.Errorf("service layer: %w", inner)

	if got := CodeOf(wrapped); got != ErrCodeConflict {
		t.Fatalf("expected conflict through the chain, got %s", got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != ErrCodeInternal {
		t.Fatalf("uncoded errors default to internal, got %s", got)
	}
}

func TestValidationCarriesAllFields(t *testing.T) {
	t.Parallel()

	err := Validation(map[string]string{
		"status":      "this field is required",
		"status_text": "an explanation is required",
	})

	fields := FieldsOf(err)
	if len(fields) != 2 {
		t.Fatalf("expected both field errors, got %v", fields)
	}
	if HTTPStatusOf(err) != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", HTTPStatusOf(err))
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, ErrCodeInternal, "failed to create report")

	if err.Unwrap() != cause {
		t.Fatal("expected the cause to unwrap")
	}
	if err.Error() != "INTERNAL: failed to create report: connection refused" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
