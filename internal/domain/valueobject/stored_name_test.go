package valueobject

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewStoredName_KeepsOriginalExtension(t *testing.T) {
	original, _ := NewFileName("report.pdf")

	sn := NewStoredName(original)

	if !strings.HasSuffix(sn.Value(), ".pdf") {
		t.Errorf("stored name should keep .pdf extension, got %q", sn.Value())
	}
}

func TestNewStoredName_BaseIsUUID(t *testing.T) {
	original, _ := NewFileName("report.pdf")

	sn := NewStoredName(original)

	base := strings.TrimSuffix(sn.Value(), ".pdf")
	if _, err := uuid.Parse(base); err != nil {
		t.Errorf("stored name base should be a UUID, got %q", base)
	}
}

func TestNewStoredName_NoExtension(t *testing.T) {
	original, _ := NewFileName("README")

	sn := NewStoredName(original)

	if _, err := uuid.Parse(sn.Value()); err != nil {
		t.Errorf("stored name for extension-less file should be bare UUID, got %q", sn.Value())
	}
}

func TestNewStoredName_UniquePerCall(t *testing.T) {
	original, _ := NewFileName("report.pdf")

	a := NewStoredName(original)
	b := NewStoredName(original)

	if a.Value() == b.Value() {
		t.Error("stored names should be unique per call")
	}
}

func TestNewStoredNameFromString_Valid(t *testing.T) {
	sn, err := NewStoredNameFromString("abc123.pdf")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sn.Value() != "abc123.pdf" {
		t.Errorf("got %q, want %q", sn.Value(), "abc123.pdf")
	}
}

func TestNewStoredNameFromString_Empty_ReturnsError(t *testing.T) {
	_, err := NewStoredNameFromString("")

	if err != ErrInvalidStoredName {
		t.Errorf("expected ErrInvalidStoredName, got: %v", err)
	}
}

func TestNewStoredNameFromString_PathSeparator_ReturnsError(t *testing.T) {
	for _, name := range []string{"a/b.pdf", "a\\b.pdf", "../escape.pdf"} {
		_, err := NewStoredNameFromString(name)
		if err != ErrInvalidStoredName {
			t.Errorf("expected ErrInvalidStoredName for %q, got: %v", name, err)
		}
	}
}
