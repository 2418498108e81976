package utilities

import "testing"

func TestNewUUIDDistinct(t *testing.T) {
	a, b := NewUUID(), NewUUID()
	if a == b {
		t.Fatal("consecutive UUIDs collided")
	}
	if len(a) != 36 {
		t.Fatalf("unexpected UUID length %d: %q", len(a), a)
	}
}

func TestNewRequestID(t *testing.T) {
	if NewRequestID() == NewRequestID() {
		t.Fatal("consecutive request IDs collided")
	}
}

func TestNewReferenceCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := NewReferenceCode()
		if code == "" {
			t.Fatal("empty reference code")
		}
		if seen[code] {
			t.Fatalf("reference code %q repeated", code)
		}
		seen[code] = true
	}
}
