package gravatar

import (
	"strings"
	"testing"
)

func TestURL(t *testing.T) {
	got := URL("ada@example.com")

	if !strings.HasPrefix(got, "https://www.gravatar.com/avatar/") {
		t.Fatalf("unexpected base: %q", got)
	}

	for _, want := range []string{"s=200", "r=pg", "d=mm"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
}

func TestURL_NormalizesEmail(t *testing.T) {
	a := URL("ada@example.com")
	b := URL("  ADA@example.COM ")

	if a != b {
		t.Fatalf("case and whitespace should not change the URL: %q vs %q", a, b)
	}
}
