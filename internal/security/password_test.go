package security

import (
	"strings"
	"testing"
)

func TestHashPassword_NeverStoresPlaintext(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if hash == "secret123" || strings.Contains(hash, "secret123") {
		t.Fatalf("hash must not contain the plaintext: %q", hash)
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if err := CheckPassword(hash, "secret123"); err != nil {
		t.Fatalf("expected matching password to verify: %v", err)
	}

	if err := CheckPassword(hash, "wrong-password"); err == nil {
		t.Fatalf("expected mismatch to fail")
	}
}

func TestHashPassword_SaltsEachCall(t *testing.T) {
	h1, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	h2, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("two hashes of the same password should differ")
	}
}
