package auth

import (
	"strings"
	"testing"
	"time"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue("user-123", "Ada Lovelace", "https://www.gravatar.com/avatar/x")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if !strings.HasPrefix(token, "Bearer ") {
		t.Fatalf("expected Bearer scheme, got %q", token)
	}

	claims, err := m.Verify(StripScheme(token))
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}

	if claims.UserID != "user-123" {
		t.Fatalf("expected user id user-123, got %q", claims.UserID)
	}
	if claims.Name != "Ada Lovelace" {
		t.Fatalf("expected name carried in claims, got %q", claims.Name)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("expected subject user-123, got %q", claims.Subject)
	}
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	other := NewManager("different-secret", time.Hour)

	token, err := m.Issue("user-123", "Ada", "")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = other.Verify(StripScheme(token))
	if err == nil {
		t.Fatalf("expected verification failure with wrong secret")
	}
}

func TestVerify_RejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Issue("user-123", "Ada", "")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = m.Verify(StripScheme(token))
	if err == nil {
		t.Fatalf("expected expired token to fail verification")
	}
}

func TestVerify_RejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	_, err := m.Verify("not-a-jwt")
	if err == nil {
		t.Fatalf("expected error for garbage token")
	}
}

func TestStripScheme(t *testing.T) {
	if got := StripScheme("Bearer abc.def.ghi"); got != "abc.def.ghi" {
		t.Fatalf("got %q", got)
	}
	if got := StripScheme("abc.def.ghi"); got != "abc.def.ghi" {
		t.Fatalf("bare token should pass through, got %q", got)
	}
}
