package utils

import (
	"testing"
	"time"
)

func TestProfileCursor_RoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	id := "e42b6ed3-0af3-49f0-9dcd-37aa7ed8c980"

	encoded, err := EncodeProfileCursor(createdAt, id)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}

	decoded, err := DecodeProfileCursor(encoded)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if !decoded.CreatedAt.Equal(createdAt) {
		t.Fatalf("createdAt mismatch: got %v want %v", decoded.CreatedAt, createdAt)
	}
	if decoded.ID != id {
		t.Fatalf("id mismatch: got %q want %q", decoded.ID, id)
	}
}

func TestDecodeProfileCursor_RejectsGarbage(t *testing.T) {
	if _, err := DecodeProfileCursor("!!!"); err == nil {
		t.Fatalf("expected error for invalid base64")
	}

	// valid base64, invalid json
	if _, err := DecodeProfileCursor("bm90LWpzb24"); err == nil {
		t.Fatalf("expected error for non-json payload")
	}
}
