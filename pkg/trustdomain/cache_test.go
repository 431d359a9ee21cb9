package trustdomain

import (
	"testing"
	"time"
)

func TestInternFirstWriterWins(t *testing.T) {
	c, err := NewLRU(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	first := c.Intern("der-aa", "cert-1")
	second := c.Intern("der-aa", "cert-2")

	if first != "cert-1" || second != "cert-1" {
		t.Fatalf("got (%v, %v), want both to be the first interned value", first, second)
	}
	if c.Len() != 1 {
		t.Fatalf("got len %d, want 1", c.Len())
	}
}

func TestInternDistinctKeys(t *testing.T) {
	c, err := NewLRU(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	c.Intern("a", 1)
	c.Intern("b", 2)
	if c.Len() != 2 {
		t.Fatalf("got len %d, want 2", c.Len())
	}
}

func TestInternExpiry(t *testing.T) {
	c, err := NewLRU(10, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	c.Intern("k", "v1")
	time.Sleep(5 * time.Millisecond)
	got := c.Intern("k", "v2")
	if got != "v2" {
		t.Fatalf("got %v, want v2 after expiry", got)
	}
}
