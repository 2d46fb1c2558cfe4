package errs

import (
	"net/http"
	"testing"
)

func TestNewErrorFormatsTemplate(t *testing.T) {
	err := NewError(ErrPasswordTooShort, 6)
	if err.Message != "Password must be at least 6 characters" {
		t.Fatalf("unexpected message %q", err.Message)
	}
	if err.Status != http.StatusBadRequest {
		t.Fatalf("expected default status 400, got %d", err.Status)
	}
}

func TestNewErrorUnknownCodeFallsBack(t *testing.T) {
	err := NewError(424242)
	if err.Code != ErrUnknown {
		t.Fatalf("expected ErrUnknown, got %d", err.Code)
	}
	if err.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", err.Status)
	}
}

func TestNewErrorIgnoresDetailsWithoutPlaceholder(t *testing.T) {
	err := NewError(ErrDiscussionEmpty, "extra")
	if err.Message != "Please enter a message" {
		t.Fatalf("unexpected message %q", err.Message)
	}
}
