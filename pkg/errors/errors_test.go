package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromStatusClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		want   Code
	}{
		{http.StatusBadRequest, CodeRejected},
		{http.StatusUnauthorized, CodeUnauthorized},
		{http.StatusForbidden, CodeForbidden},
		{http.StatusNotFound, CodeNotFound},
		{http.StatusConflict, CodeConflict},
		{http.StatusUnprocessableEntity, CodeRejected},
		{http.StatusInternalServerError, CodeDependency},
		{http.StatusBadGateway, CodeDependency},
	}

	for _, tc := range cases {
		if got := FromStatus(tc.status, "boom").Code(); got != tc.want {
			t.Fatalf("status %d: expected %s, got %s", tc.status, tc.want, got)
		}
	}
}

func TestFromStatusKeepsDetailVerbatim(t *testing.T) {
	t.Parallel()

	err := FromStatus(http.StatusBadRequest, "Insufficient stock for Pixel 9")
	if err.Message() != "Insufficient stock for Pixel 9" {
		t.Fatalf("detail not preserved: %q", err.Message())
	}

	fallback := FromStatus(http.StatusBadRequest, "  ")
	if fallback.Message() != MetadataFor(CodeRejected).PublicMessage {
		t.Fatalf("expected public fallback, got %q", fallback.Message())
	}
}

func TestWrapUnwrapsToCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := Wrap(CodeDependency, cause, "execute request")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if typed := As(fmt.Errorf("outer: %w", err)); typed == nil || typed.Code() != CodeDependency {
		t.Fatalf("expected typed error through wrapping, got %v", typed)
	}
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	if got := UserMessage(New(CodeValidation, "phone is required")); got != "phone is required" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := UserMessage(errors.New("dial tcp: timeout")); got != MetadataFor(CodeDependency).PublicMessage {
		t.Fatalf("expected generic fallback, got %q", got)
	}
}
