package valueobject

import (
	"testing"
)

func TestNewEncryptionEnvelope_AllFields_ReturnsEnvelope(t *testing.T) {
	env, err := NewEncryptionEnvelope("wrapped-key", "iv-value", "abc123")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.WrappedKey() != "wrapped-key" || env.IV() != "iv-value" || env.ExpectedHash() != "abc123" {
		t.Error("envelope should keep all three fields")
	}
	if env.IsZero() {
		t.Error("complete envelope should not be zero")
	}
}

func TestNewEncryptionEnvelope_MissingAnyField_ReturnsError(t *testing.T) {
	cases := [][3]string{
		{"", "iv", "hash"},
		{"key", "", "hash"},
		{"key", "iv", ""},
		{"key", "", ""},
		{"", "", "hash"},
		{"", "", ""},
	}

	for _, c := range cases {
		_, err := NewEncryptionEnvelope(c[0], c[1], c[2])
		if err != ErrIncompleteEncryptionMetadata {
			t.Errorf("expected ErrIncompleteEncryptionMetadata for %v, got: %v", c, err)
		}
	}
}

func TestNewEncryptionEnvelope_WhitespaceOnlyField_ReturnsError(t *testing.T) {
	_, err := NewEncryptionEnvelope("key", "   ", "hash")

	if err != ErrIncompleteEncryptionMetadata {
		t.Errorf("expected ErrIncompleteEncryptionMetadata, got: %v", err)
	}
}

func TestReconstructEncryptionEnvelope_PartialData_ReturnsZero(t *testing.T) {
	env := ReconstructEncryptionEnvelope("key", "", "hash")

	if !env.IsZero() {
		t.Error("partial metadata should reconstruct as zero envelope")
	}
}

func TestReconstructEncryptionEnvelope_Complete(t *testing.T) {
	env := ReconstructEncryptionEnvelope("key", "iv", "hash")

	if env.IsZero() {
		t.Error("complete metadata should not be zero")
	}
	if env.ExpectedHash() != "hash" {
		t.Errorf("got %q, want %q", env.ExpectedHash(), "hash")
	}
}
