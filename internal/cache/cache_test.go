package cache

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("k", "v")

	got, ok := c.Get("k")
	if !ok {
		t.Fatalf("expected hit")
	}
	if got != "v" {
		t.Fatalf("got %v", got)
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New(10 * time.Millisecond)

	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestCache_Clear(t *testing.T) {
	c := New(time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected empty cache after Clear")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected empty cache after Clear")
	}
}

func TestCache_Delete(t *testing.T) {
	c := New(time.Minute)

	c.Set("a", 1)
	c.Delete("a")

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected miss after Delete")
	}
}
