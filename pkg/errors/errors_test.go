package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataFor_KnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeStateConflict, http.StatusBadRequest},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("%s: expected status %d, got %d", tc.code, tc.status, got)
		}
	}
}

func TestMetadataFor_UnknownFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestAs_UnwrapsNestedError(t *testing.T) {
	inner := New(CodeNotFound, "cart not found")
	wrapped := fmt.Errorf("loading cart: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestAs_PlainErrorReturnsNil(t *testing.T) {
	if As(fmt.Errorf("boom")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}

func TestDump_CollectsChain(t *testing.T) {
	inner := New(CodeConflict, "duplicate email")
	wrapped := fmt.Errorf("register: %w", inner)

	dump := Dump(wrapped)
	if dump.Code != string(CodeConflict) {
		t.Fatalf("unexpected code %q", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(dump.Chain))
	}
}
