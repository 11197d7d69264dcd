package valueobject

import (
	"testing"
)

func TestNewMimeType_Valid_ReturnsMimeType(t *testing.T) {
	mt, err := NewMimeType("application/pdf")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mt.Value() != "application/pdf" {
		t.Errorf("got %q, want %q", mt.Value(), "application/pdf")
	}
}

func TestNewMimeType_Lowercases(t *testing.T) {
	mt, err := NewMimeType("Application/PDF")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mt.Value() != "application/pdf" {
		t.Errorf("got %q, want %q", mt.Value(), "application/pdf")
	}
}

func TestNewMimeType_Empty_ReturnsError(t *testing.T) {
	_, err := NewMimeType("")

	if err != ErrInvalidMimeType {
		t.Errorf("expected ErrInvalidMimeType, got: %v", err)
	}
}

func TestNewMimeType_MalformedFormat_ReturnsError(t *testing.T) {
	for _, v := range []string{"pdf", "application/", "/pdf", "a/b/c"} {
		_, err := NewMimeType(v)
		if err != ErrInvalidMimeType {
			t.Errorf("expected ErrInvalidMimeType for %q, got: %v", v, err)
		}
	}
}
